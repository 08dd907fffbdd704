package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/alnpaa/certify/pkg/server/store"
)

// MockCertificatesStore implements store.CertificatesStore for testing using
// testify/mock
type MockCertificatesStore struct {
	mock.Mock
}

func NewMockCertificatesStore() *MockCertificatesStore {
	return &MockCertificatesStore{}
}

func (m *MockCertificatesStore) Insert(cert *store.Certificate) error {
	args := m.Called(cert)
	return args.Error(0)
}

func (m *MockCertificatesStore) InsertBatch(certs []*store.Certificate, batchSize int) error {
	args := m.Called(certs, batchSize)
	return args.Error(0)
}

func (m *MockCertificatesStore) List(cursor *store.Cursor, pageSize int) ([]store.Certificate, *store.Cursor, error) {
	args := m.Called(cursor, pageSize)
	var next *store.Cursor
	if args.Get(1) != nil {
		next = args.Get(1).(*store.Cursor)
	}
	return args.Get(0).([]store.Certificate), next, args.Error(2)
}

func (m *MockCertificatesStore) Search(term string, limit int) ([]store.Certificate, error) {
	args := m.Called(term, limit)
	return args.Get(0).([]store.Certificate), args.Error(1)
}

func (m *MockCertificatesStore) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCertificatesStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCertificatesStore) ExistsByCode(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCertificatesStore) FindByCode(code string) (*store.Certificate, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Certificate), args.Error(1)
}

func (m *MockCertificatesStore) ExistingCodes(codes []string) (map[string]bool, error) {
	args := m.Called(codes)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockCertificatesStore) FetchAll() ([]store.Certificate, error) {
	args := m.Called()
	return args.Get(0).([]store.Certificate), args.Error(1)
}

// MockAdminsStore implements store.AdminsStore for testing using testify/mock
type MockAdminsStore struct {
	mock.Mock
}

func NewMockAdminsStore() *MockAdminsStore {
	return &MockAdminsStore{}
}

func (m *MockAdminsStore) FetchAdmin(email string) (*store.AdminUser, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AdminUser), args.Error(1)
}

func (m *MockAdminsStore) UpsertAdmin(email string, passwordHash []byte) error {
	args := m.Called(email, passwordHash)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
