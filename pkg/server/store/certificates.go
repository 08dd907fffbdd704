package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a certificate doesn't exist
var ErrNotFound = errors.New("certificate not found")

// ErrCodeTaken is returned when an insert loses the race on the code's
// unique index. The existence check in codegen makes this exceedingly rare;
// the index is the backstop that turns the race into a clean error.
var ErrCodeTaken = errors.New("certificate code already exists")

// ErrPermissionDenied is returned when the database rejects an operation for
// lack of privileges, as distinct from a generic write failure.
var ErrPermissionDenied = errors.New("permission denied")

// Certificate represents an issued certificate record
type Certificate struct {
	Id        string
	Code      string
	Name      string
	Program   string
	CreatedAt time.Time
	CreatedBy string
}

// CertificatesStore abstracts certificate storage operations
type CertificatesStore interface {
	// Insert writes a single new certificate. Returns ErrCodeTaken on a
	// code collision and ErrPermissionDenied on an authorization failure.
	Insert(cert *Certificate) error

	// InsertBatch writes certificates in atomic batches of at most
	// batchSize rows each. Used by the backup importer.
	InsertBatch(certs []*Certificate, batchSize int) error

	// List returns at most pageSize certificates ordered by created_at
	// descending, resuming after the given cursor (nil means newest).
	// The returned cursor is nil when fewer than pageSize rows came back.
	List(cursor *Cursor, pageSize int) ([]Certificate, *Cursor, error)

	// Search returns certificates whose name or program contains the term,
	// newest first, capped at limit.
	Search(term string, limit int) ([]Certificate, error)

	// Count returns the total number of live certificates. Expensive;
	// callers cache it (see pkg/pagination).
	Count() (int64, error)

	// Delete removes a certificate by storage id. Returns ErrNotFound when
	// no row was deleted.
	Delete(id string) error

	// ExistsByCode reports whether any live certificate has the code.
	ExistsByCode(code string) (bool, error)

	// FindByCode retrieves a certificate by its public code.
	// Returns ErrNotFound when there is no match.
	FindByCode(code string) (*Certificate, error)

	// ExistingCodes reports which of the given codes are already present.
	// Callers chunk the input to at most 10 codes per call.
	ExistingCodes(codes []string) (map[string]bool, error)

	// FetchAll returns the entire registry ordered by created_at
	// descending. Export path only; unbounded.
	FetchAll() ([]Certificate, error)
}
