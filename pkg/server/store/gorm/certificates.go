package gorm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/alnpaa/certify/pkg/model"
	"github.com/alnpaa/certify/pkg/server/store"
)

// Ensure CertificatesStore implements store.CertificatesStore
var _ store.CertificatesStore = (*CertificatesStore)(nil)

// CertificatesStore implements store.CertificatesStore using GORM
type CertificatesStore struct {
	db *gorm.DB
}

// NewCertificatesStore creates a new CertificatesStore
func NewCertificatesStore(db *gorm.DB) *CertificatesStore {
	return &CertificatesStore{db: db}
}

// Insert writes a single new certificate.
func (s *CertificatesStore) Insert(cert *store.Certificate) error {
	tx := s.db.Create(toModel(cert))
	if tx.Error != nil {
		return writeError(tx.Error)
	}
	return nil
}

// InsertBatch writes certificates in transactions of at most batchSize rows.
// Each batch commits in its own transaction; a failure leaves earlier
// batches committed, which the importer tolerates because re-import skips
// existing codes.
func (s *CertificatesStore) InsertBatch(certs []*store.Certificate, batchSize int) error {
	if len(certs) == 0 {
		return nil
	}
	if batchSize < 1 {
		batchSize = len(certs)
	}

	for start := 0; start < len(certs); start += batchSize {
		end := start + batchSize
		if end > len(certs) {
			end = len(certs)
		}

		rows := make([]model.Certificate, 0, end-start)
		for _, cert := range certs[start:end] {
			rows = append(rows, *toModel(cert))
		}

		if err := s.db.Create(&rows).Error; err != nil {
			return writeError(err)
		}
	}
	return nil
}

// List returns a page of certificates ordered by created_at descending,
// using keyset pagination on (created_at, id).
func (s *CertificatesStore) List(cursor *store.Cursor, pageSize int) ([]store.Certificate, *store.Cursor, error) {
	query := s.db.Order("created_at DESC, id DESC").Limit(pageSize)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.Id)
	}

	var rows []model.Certificate
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	certs := make([]store.Certificate, 0, len(rows))
	for _, row := range rows {
		certs = append(certs, *fromModel(&row))
	}

	// Fewer rows than requested means the traversal is complete.
	if len(rows) < pageSize {
		return certs, nil, nil
	}

	last := rows[len(rows)-1]
	next := &store.Cursor{CreatedAt: last.CreatedAt, Id: last.Id}
	return certs, next, nil
}

// Search filters by name or program, case-insensitively, newest first.
func (s *CertificatesStore) Search(term string, limit int) ([]store.Certificate, error) {
	pattern := "%" + escapeLike(term) + "%"

	var rows []model.Certificate
	err := s.db.
		Where("name ILIKE ? OR program ILIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search certificates: %w", err)
	}

	certs := make([]store.Certificate, 0, len(rows))
	for _, row := range rows {
		certs = append(certs, *fromModel(&row))
	}
	return certs, nil
}

// Count returns the total number of certificates.
func (s *CertificatesStore) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.Certificate{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count certificates: %w", err)
	}
	return count, nil
}

// Delete removes a certificate by id.
func (s *CertificatesStore) Delete(id string) error {
	tx := s.db.Where("id = ?", id).Delete(&model.Certificate{})
	if tx.Error != nil {
		return writeError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ExistsByCode reports whether a certificate with the code exists.
func (s *CertificatesStore) ExistsByCode(code string) (bool, error) {
	var count int64
	err := s.db.Model(&model.Certificate{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check code existence: %w", err)
	}
	return count > 0, nil
}

// FindByCode retrieves a certificate by its public code.
func (s *CertificatesStore) FindByCode(code string) (*store.Certificate, error) {
	var row model.Certificate
	tx := s.db.Where("code = ?", code).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch certificate: %w", tx.Error)
	}
	return fromModel(&row), nil
}

// ExistingCodes reports which of the given codes are already present.
func (s *CertificatesStore) ExistingCodes(codes []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(codes))
	if len(codes) == 0 {
		return existing, nil
	}

	var found []string
	err := s.db.Model(&model.Certificate{}).
		Where("code IN ?", codes).
		Pluck("code", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing codes: %w", err)
	}

	for _, code := range found {
		existing[code] = true
	}
	return existing, nil
}

// FetchAll returns every certificate ordered newest first.
func (s *CertificatesStore) FetchAll() ([]store.Certificate, error) {
	var rows []model.Certificate
	if err := s.db.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch certificates: %w", err)
	}

	certs := make([]store.Certificate, 0, len(rows))
	for _, row := range rows {
		certs = append(certs, *fromModel(&row))
	}
	return certs, nil
}

func toModel(cert *store.Certificate) *model.Certificate {
	return &model.Certificate{
		Id:        cert.Id,
		Code:      cert.Code,
		Name:      cert.Name,
		Program:   cert.Program,
		CreatedAt: cert.CreatedAt,
		CreatedBy: cert.CreatedBy,
	}
}

func fromModel(row *model.Certificate) *store.Certificate {
	return &store.Certificate{
		Id:        row.Id,
		Code:      row.Code,
		Name:      row.Name,
		Program:   row.Program,
		CreatedAt: row.CreatedAt,
		CreatedBy: row.CreatedBy,
	}
}

// writeError maps postgres failures onto the store's error taxonomy.
func writeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return store.ErrCodeTaken
		case "42501": // insufficient_privilege
			return store.ErrPermissionDenied
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrCodeTaken
	}
	return fmt.Errorf("write failed: %w", err)
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
