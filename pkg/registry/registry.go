// Package registry implements the certificate issuing and verification
// logic on top of the storage layer.
//
// Input sanitization, validation, and unique-code generation live here;
// the store underneath only moves records. The re-authentication gate before
// delete is an HTTP-layer concern and deliberately not part of this package.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnpaa/certify/pkg/codegen"
	"github.com/alnpaa/certify/pkg/server/store"
)

// MaxFieldLength caps sanitized name and program values.
const MaxFieldLength = 200

// ErrInvalidInput is returned when name or program is empty after
// sanitization. No write is attempted.
var ErrInvalidInput = errors.New("name and program are required")

// Registry issues, resolves, and revokes certificates.
type Registry struct {
	certs store.CertificatesStore
}

// New creates a Registry over the given store.
func New(certs store.CertificatesStore) *Registry {
	return &Registry{certs: certs}
}

// Sanitize applies the input rule for name and program values:
// trim, remove every '<' and '>', then truncate. The order matters and is
// covered by tests.
func Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	if runes := []rune(s); len(runes) > MaxFieldLength {
		s = string(runes[:MaxFieldLength])
	}
	return s
}

// Add validates inputs, generates a unique code, and writes a new
// certificate attributed to actor. Validation failures reject before any
// I/O.
func (r *Registry) Add(name, program, actor string) (*store.Certificate, error) {
	sanitizedName := Sanitize(name)
	sanitizedProgram := Sanitize(program)
	if sanitizedName == "" || sanitizedProgram == "" {
		return nil, ErrInvalidInput
	}

	code, err := codegen.GenerateUnique(r.certs.ExistsByCode)
	if err != nil {
		return nil, err
	}

	cert := &store.Certificate{
		Id:        uuid.NewString(),
		Code:      code,
		Name:      sanitizedName,
		Program:   sanitizedProgram,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}

	if err := r.certs.Insert(cert); err != nil {
		return nil, fmt.Errorf("failed to add certificate: %w", err)
	}
	return cert, nil
}

// Delete removes a certificate by storage id.
func (r *Registry) Delete(id string) error {
	return r.certs.Delete(id)
}

// Resolve maps a public code to its certificate. The code is normalized to
// uppercase before lookup so verification is case-insensitive.
func (r *Registry) Resolve(code string) (*store.Certificate, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, store.ErrNotFound
	}
	return r.certs.FindByCode(normalized)
}
