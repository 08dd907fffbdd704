package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnpaa/certify/pkg/server/store"
)

// ErrParse is returned when the backup document is not a JSON array.
var ErrParse = errors.New("backup document must be a JSON array")

// ValidationError reports the first invalid record of a backup document.
// Validation is all-or-nothing: nothing is written when any record is bad.
type ValidationError struct {
	Index int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d is missing name, program, or code", e.Index)
}

// Result summarizes an import run.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer restores certificates from a backup document.
type Importer struct {
	certs store.CertificatesStore
}

// NewImporter creates an Importer.
func NewImporter(certs store.CertificatesStore) *Importer {
	return &Importer{certs: certs}
}

// Import reads a backup document and writes the records whose codes are not
// already present.
//
// Records are validated up front; codes are normalized to uppercase, and a
// code appearing more than once in the same document keeps its first
// occurrence only (later ones count as skipped). Existence checks run in
// chunks of QueryChunkSize, strictly in document order; staged rows are
// committed in batches of at most BatchWriteLimit.
//
// Re-importing a document after a successful import yields Imported=0 and
// Skipped=len(document).
func (i *Importer) Import(r io.Reader) (*Result, error) {
	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for idx, rec := range records {
		if strings.TrimSpace(rec.Name) == "" ||
			strings.TrimSpace(rec.Program) == "" ||
			strings.TrimSpace(rec.Code) == "" {
			return nil, &ValidationError{Index: idx}
		}
	}

	result := &Result{}
	seen := make(map[string]bool, len(records))
	var staged []*store.Certificate

	for start := 0; start < len(records); start += QueryChunkSize {
		end := start + QueryChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		codes := make([]string, 0, len(chunk))
		for _, rec := range chunk {
			codes = append(codes, normalizeCode(rec.Code))
		}

		existing, err := i.certs.ExistingCodes(codes)
		if err != nil {
			return nil, fmt.Errorf("duplicate check failed: %w", err)
		}

		for _, rec := range chunk {
			code := normalizeCode(rec.Code)
			if existing[code] || seen[code] {
				result.Skipped++
				continue
			}
			seen[code] = true

			staged = append(staged, &store.Certificate{
				Id:        uuid.NewString(),
				Code:      code,
				Name:      rec.Name,
				Program:   rec.Program,
				CreatedAt: parseCreatedAt(rec.CreatedAt),
			})
			result.Imported++
		}
	}

	if err := i.certs.InsertBatch(staged, BatchWriteLimit); err != nil {
		return nil, fmt.Errorf("import write failed: %w", err)
	}
	return result, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// parseCreatedAt keeps the original timestamp when the document carries a
// parseable one and falls back to now otherwise.
func parseCreatedAt(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Now()
}
