// Package backup serializes the certificate registry to a transportable
// JSON document and restores from one, de-duplicating by code.
//
// The document format is a single JSON array:
//
//	[ { "name": ..., "program": ..., "code": ..., "createdAt": RFC3339 }, ... ]
//
// Export omits the storage id and the creator; import assigns fresh storage
// ids and leaves the creator empty.
package backup

import (
	"time"
)

// QueryChunkSize bounds the codes checked per existence query, matching the
// store's "value in set" query limit.
const QueryChunkSize = 10

// BatchWriteLimit bounds the rows committed per write batch.
const BatchWriteLimit = 500

// Record is one entry of the backup document.
type Record struct {
	Name      string `json:"name"`
	Program   string `json:"program"`
	Code      string `json:"code"`
	CreatedAt string `json:"createdAt"`
}

// Filename returns the conventional export filename for the given day:
// certificates-backup-<YYYY-MM-DD>.json.
func Filename(now time.Time) string {
	return "certificates-backup-" + now.Format("2006-01-02") + ".json"
}
