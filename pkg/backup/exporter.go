package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alnpaa/certify/pkg/server/store"
)

// Exporter writes the full registry as a backup document.
type Exporter struct {
	certs store.CertificatesStore
	state *State
}

// NewExporter creates an Exporter. state may be nil when no last-backup
// bookkeeping is wanted (e.g. one-shot CLI runs against a foreign state dir).
func NewExporter(certs store.CertificatesStore, state *State) *Exporter {
	return &Exporter{certs: certs, state: state}
}

// State returns the backup bookkeeping, or nil when none was configured.
func (e *Exporter) State() *State {
	return e.state
}

// Export writes the whole registry to w as an indented JSON array, newest
// first, and returns the number of exported records. On success the
// last-backup timestamp is recorded best-effort; a bookkeeping failure never
// fails the export.
func (e *Exporter) Export(w io.Writer) (int, error) {
	certs, err := e.certs.FetchAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read registry: %w", err)
	}

	records := make([]Record, 0, len(certs))
	for _, cert := range certs {
		records = append(records, Record{
			Name:      cert.Name,
			Program:   cert.Program,
			Code:      cert.Code,
			CreatedAt: cert.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("failed to serialize backup: %w", err)
	}

	if e.state != nil {
		e.state.RecordBackup(time.Now())
	}
	return len(records), nil
}
