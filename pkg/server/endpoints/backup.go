package endpoints

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alnpaa/certify/pkg/audit"
	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/identity"
	"github.com/alnpaa/certify/pkg/notify"
	"github.com/alnpaa/certify/pkg/server"
)

// MaxImportBodyBytes caps the size of an uploaded backup document.
const MaxImportBodyBytes = 10 << 20 // 10 MiB

// ImportResponse is the response from POST /backup/import
type ImportResponse struct {
	Imported     int                 `json:"imported"`
	Skipped      int                 `json:"skipped"`
	Notification notify.Notification `json:"notification"`
}

// RegisterBackupEndpoints registers the export and import endpoints
func RegisterBackupEndpoints(s *server.Server) {
	backupRouter := s.Router.PathPrefix("/backup").Subrouter()
	backupRouter.Use(s.SessionMiddleware().Middleware)

	backupRouter.HandleFunc("/export", handleExport(s)).Methods("GET")
	backupRouter.HandleFunc("/import", handleImport(s)).Methods("POST")
}

func handleExport(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		// Render into memory first so a store failure can still produce an
		// error status instead of a truncated 200 body.
		var buf bytes.Buffer
		count, err := s.Exporter.Export(&buf)
		if err != nil {
			audit.Log(audit.ExportEvent{
				Email:        id.Email,
				ClientIP:     ipString(id),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "export failed")
			return
		}

		audit.Log(audit.ExportEvent{
			Email:    id.Email,
			ClientIP: ipString(id),
			Count:    count,
			Success:  true,
		})

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", backup.Filename(time.Now())))
		_, _ = buf.WriteTo(w)
	}
}

func handleImport(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		result, err := s.Importer.Import(http.MaxBytesReader(w, r.Body, MaxImportBodyBytes))
		if err != nil {
			audit.Log(audit.ImportEvent{
				Email:        id.Email,
				ClientIP:     ipString(id),
				Success:      false,
				ErrorMessage: err.Error(),
			})

			status := http.StatusInternalServerError
			var validationErr *backup.ValidationError
			if errors.As(err, &validationErr) || errors.Is(err, backup.ErrParse) {
				status = http.StatusUnprocessableEntity
			}
			respondWithJSON(w, status, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		if result.Imported > 0 {
			s.Pages.MarkAllDirty()
		}

		audit.Log(audit.ImportEvent{
			Email:    id.Email,
			ClientIP: ipString(id),
			Imported: result.Imported,
			Skipped:  result.Skipped,
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, ImportResponse{
			Imported:     result.Imported,
			Skipped:      result.Skipped,
			Notification: notify.Imported(*result),
		})
	}
}
