package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnpaa/certify/pkg/server/store"
)

// memStore is an in-memory CertificatesStore covering the import/export
// surface. ExistingCodes call sizes are recorded to assert chunking.
type memStore struct {
	certs      []store.Certificate
	chunkSizes []int
}

func (m *memStore) Insert(cert *store.Certificate) error {
	m.certs = append(m.certs, *cert)
	return nil
}

func (m *memStore) InsertBatch(certs []*store.Certificate, batchSize int) error {
	for _, cert := range certs {
		m.certs = append(m.certs, *cert)
	}
	return nil
}

func (m *memStore) List(cursor *store.Cursor, pageSize int) ([]store.Certificate, *store.Cursor, error) {
	return nil, nil, nil
}

func (m *memStore) Search(term string, limit int) ([]store.Certificate, error) {
	return nil, nil
}

func (m *memStore) Count() (int64, error) {
	return int64(len(m.certs)), nil
}

func (m *memStore) Delete(id string) error {
	return store.ErrNotFound
}

func (m *memStore) ExistsByCode(code string) (bool, error) {
	for _, cert := range m.certs {
		if cert.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) FindByCode(code string) (*store.Certificate, error) {
	for _, cert := range m.certs {
		if cert.Code == code {
			c := cert
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) ExistingCodes(codes []string) (map[string]bool, error) {
	m.chunkSizes = append(m.chunkSizes, len(codes))
	existing := map[string]bool{}
	for _, code := range codes {
		if ok, _ := m.ExistsByCode(code); ok {
			existing[code] = true
		}
	}
	return existing, nil
}

func (m *memStore) FetchAll() ([]store.Certificate, error) {
	sorted := make([]store.Certificate, len(m.certs))
	copy(sorted, m.certs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted, nil
}

func document(n int) string {
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, Record{
			Name:      fmt.Sprintf("Recipient %d", i),
			Program:   "Go 101",
			Code:      fmt.Sprintf("CODE%04d", i),
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		})
	}
	raw, _ := json.Marshal(records)
	return string(raw)
}

func TestImport_EmptyRegistry(t *testing.T) {
	s := &memStore{}
	imp := NewImporter(s)

	result, err := imp.Import(strings.NewReader(document(23)))
	require.NoError(t, err)
	assert.Equal(t, 23, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, s.certs, 23)
}

func TestImport_Idempotent(t *testing.T) {
	s := &memStore{}
	imp := NewImporter(s)
	doc := document(23)

	_, err := imp.Import(strings.NewReader(doc))
	require.NoError(t, err)

	result, err := imp.Import(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 23, result.Skipped)
	assert.Len(t, s.certs, 23)
}

func TestImport_ChunksExistenceChecks(t *testing.T) {
	s := &memStore{}
	imp := NewImporter(s)

	_, err := imp.Import(strings.NewReader(document(23)))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 3}, s.chunkSizes)
}

func TestImport_FreshIdsAndTimestamps(t *testing.T) {
	s := &memStore{}
	imp := NewImporter(s)

	_, err := imp.Import(strings.NewReader(`[
		{"name":"Ann","program":"Go 101","code":"aaaa1111","createdAt":"2025-06-01T10:00:00Z"},
		{"name":"Bob","program":"Go 102","code":"BBBB2222","createdAt":"not-a-date"}
	]`))
	require.NoError(t, err)
	require.Len(t, s.certs, 2)

	// Codes normalize to uppercase, ids are freshly generated, and the
	// creator is unknown for imported records.
	assert.Equal(t, "AAAA1111", s.certs[0].Code)
	assert.NotEmpty(t, s.certs[0].Id)
	assert.NotEqual(t, s.certs[0].Code, s.certs[0].Id)
	assert.Empty(t, s.certs[0].CreatedBy)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), s.certs[0].CreatedAt.UTC())

	// Unparseable createdAt falls back to now.
	assert.WithinDuration(t, time.Now(), s.certs[1].CreatedAt, time.Minute)
}

func TestImport_WithinDocumentDuplicates(t *testing.T) {
	s := &memStore{}
	imp := NewImporter(s)

	result, err := imp.Import(strings.NewReader(`[
		{"name":"Ann","program":"Go 101","code":"AAAA1111","createdAt":"2025-06-01T10:00:00Z"},
		{"name":"Ann again","program":"Go 101","code":"aaaa1111","createdAt":"2025-06-02T10:00:00Z"},
		{"name":"Bob","program":"Go 102","code":"BBBB2222","createdAt":"2025-06-01T10:00:00Z"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	// First occurrence wins.
	cert, err := s.FindByCode("AAAA1111")
	require.NoError(t, err)
	assert.Equal(t, "Ann", cert.Name)
}

func TestImport_ValidationAllOrNothing(t *testing.T) {
	s := &memStore{}
	imp := NewImporter(s)

	_, err := imp.Import(strings.NewReader(`[
		{"name":"Ann","program":"Go 101","code":"AAAA1111"},
		{"name":"","program":"Go 102","code":"BBBB2222"}
	]`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 1, validationErr.Index)
	assert.Empty(t, s.certs, "validation failure must write zero records")
}

func TestImport_NotAnArray(t *testing.T) {
	imp := NewImporter(&memStore{})

	_, err := imp.Import(strings.NewReader(`{"name":"Ann"}`))
	assert.ErrorIs(t, err, ErrParse)

	_, err = imp.Import(strings.NewReader(`not json at all`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestExport_ProjectsPublicFields(t *testing.T) {
	s := &memStore{certs: []store.Certificate{{
		Id:        "internal-id",
		Code:      "AAAA1111",
		Name:      "Ann",
		Program:   "Go 101",
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		CreatedBy: "admin@example.com",
	}}}

	var buf bytes.Buffer
	count, err := NewExporter(s, nil).Export(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{
		"name":      "Ann",
		"program":   "Go 101",
		"code":      "AAAA1111",
		"createdAt": "2025-06-01T10:00:00Z",
	}, records[0], "export must omit id and createdBy")
}

func TestExportImport_RoundTrip(t *testing.T) {
	source := &memStore{}
	imp := NewImporter(source)
	_, err := imp.Import(strings.NewReader(document(17)))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = NewExporter(source, nil).Export(&buf)
	require.NoError(t, err)

	target := &memStore{}
	result, err := NewImporter(target).Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, 17, result.Imported)

	type tuple struct{ name, program, code string }
	set := func(s *memStore) map[tuple]bool {
		out := map[tuple]bool{}
		for _, cert := range s.certs {
			out[tuple{cert.Name, cert.Program, cert.Code}] = true
		}
		return out
	}
	assert.Equal(t, set(source), set(target))
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "certificates-backup-2026-08-28.json", Filename(now))
}

func TestState_RoundTrip(t *testing.T) {
	state := NewState(t.TempDir())

	_, ok := state.LastBackup()
	assert.False(t, ok)

	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	state.RecordBackup(at)

	got, ok := state.LastBackup()
	require.True(t, ok)
	assert.True(t, got.Equal(at))
}
