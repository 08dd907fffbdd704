package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/alnpaa/certify/pkg/audit"
	"github.com/alnpaa/certify/pkg/codegen"
	"github.com/alnpaa/certify/pkg/identity"
	"github.com/alnpaa/certify/pkg/notify"
	"github.com/alnpaa/certify/pkg/registry"
	"github.com/alnpaa/certify/pkg/server"
	"github.com/alnpaa/certify/pkg/server/store"
)

// SearchLimit caps the number of search results returned in one response.
const SearchLimit = 50

// CertificateResponse is the JSON representation of a certificate for
// authenticated endpoints.
type CertificateResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Program   string    `json:"program"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// PageResponse is the JSON representation of one registry page.
type PageResponse struct {
	Page       int                   `json:"page"`
	Items      []CertificateResponse `json:"items"`
	TotalPages int                   `json:"total_pages"`
	TotalCount int64                 `json:"total_count"`
}

// CursorPageResponse is the JSON representation of a cursor-addressed page.
// Clients that keep their own place in the listing use this instead of page
// numbers and skip the per-session controller entirely.
type CursorPageResponse struct {
	Items         []CertificateResponse `json:"items"`
	NextPageToken string                `json:"next_page_token,omitempty"`
}

// AddCertificateRequest is the body of POST /certificates
type AddCertificateRequest struct {
	Name    string `json:"name"`
	Program string `json:"program"`
}

// DeleteCertificateRequest is the body of DELETE /certificates/{id}.
// The password re-confirms the admin's credential before the delete runs.
type DeleteCertificateRequest struct {
	Password string `json:"password"`
}

// StatsResponse is the response from GET /certificates/stats
type StatsResponse struct {
	TotalCertificates int64      `json:"total_certificates"`
	LastBackupAt      *time.Time `json:"last_backup_at,omitempty"`
}

// RegisterCertificatesEndpoints registers the authenticated certificate
// management endpoints
func RegisterCertificatesEndpoints(s *server.Server) {
	certsRouter := s.Router.PathPrefix("/certificates").Subrouter()
	certsRouter.Use(s.SessionMiddleware().Middleware)

	certsRouter.HandleFunc("", handleListCertificates(s)).Methods("GET").Queries("search", "{search}")
	certsRouter.HandleFunc("", handleListCertificates(s)).Methods("GET")
	certsRouter.HandleFunc("", handleAddCertificate(s)).Methods("POST")
	certsRouter.HandleFunc("/stats", handleStats(s)).Methods("GET")
	certsRouter.HandleFunc("/{id}", handleDeleteCertificate(s)).Methods("DELETE")
}

func handleListCertificates(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if term := r.URL.Query().Get("search"); term != "" {
			handleSearchCertificates(s, w, term)
			return
		}

		if r.URL.Query().Has("page_token") {
			handleListByCursor(s, w, r)
			return
		}

		id, _ := identity.Get(r.Context())

		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondWithError(w, http.StatusBadRequest, "page must be a positive integer")
				return
			}
			page = parsed
		}

		result, err := s.Pages.For(id.SessionID).GoToPage(page)
		if err != nil {
			respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		respondWithJSON(w, http.StatusOK, PageResponse{
			Page:       result.Number,
			Items:      toCertificateResponses(result.Items),
			TotalPages: result.TotalPages,
			TotalCount: result.TotalCount,
		})
	}
}

func handleListByCursor(s *server.Server, w http.ResponseWriter, r *http.Request) {
	cursor, err := store.DecodeCursor(r.URL.Query().Get("page_token"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed page_token")
		return
	}

	pageSize := s.Config.PageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > SearchLimit {
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("page_size must be between 1 and %d", SearchLimit))
			return
		}
		pageSize = parsed
	}

	items, next, err := s.CertificatesStore.List(cursor, pageSize)
	if err != nil {
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"notification": notify.ForError(err),
		})
		return
	}

	resp := CursorPageResponse{Items: toCertificateResponses(items)}
	if next != nil {
		resp.NextPageToken = next.Encode()
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func handleSearchCertificates(s *server.Server, w http.ResponseWriter, term string) {
	matches, err := s.CertificatesStore.Search(term, SearchLimit)
	if err != nil {
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"notification": notify.ForError(err),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": toCertificateResponses(matches),
	})
}

func handleAddCertificate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var req AddCertificateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		cert, err := s.Registry.Add(req.Name, req.Program, id.Email)
		if err != nil {
			audit.Log(audit.IssueEvent{
				Email:        id.Email,
				ClientIP:     ipString(id),
				Recipient:    req.Name,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithJSON(w, statusForError(err), map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		s.Pages.MarkAllDirty()
		audit.Log(audit.IssueEvent{
			Email:     id.Email,
			ClientIP:  ipString(id),
			Code:      cert.Code,
			Recipient: cert.Name,
			Success:   true,
		})

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"certificate":  toCertificateResponse(*cert),
			"notification": notify.Issued(cert.Code),
		})
	}
}

func handleDeleteCertificate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		certID := mux.Vars(r)["id"]

		var req DeleteCertificateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		// Destructive operation: the admin must re-confirm their password,
		// a live session is not enough.
		if err := s.Authenticator.Reauthenticate(id.Email, req.Password); err != nil {
			audit.Log(audit.ReauthEvent{Email: id.Email, ClientIP: ipString(id), Success: false})
			respondWithJSON(w, http.StatusForbidden, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}
		audit.Log(audit.ReauthEvent{Email: id.Email, ClientIP: ipString(id), Success: true})

		if err := s.Registry.Delete(certID); err != nil {
			audit.Log(audit.RevokeEvent{
				Email:         id.Email,
				ClientIP:      ipString(id),
				CertificateID: certID,
				Success:       false,
				ErrorMessage:  err.Error(),
			})
			respondWithJSON(w, statusForError(err), map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		s.Pages.MarkAllDirty()
		audit.Log(audit.RevokeEvent{
			Email:         id.Email,
			ClientIP:      ipString(id),
			CertificateID: certID,
			Success:       true,
		})

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"notification": notify.Revoked(),
		})
	}
}

func handleStats(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.CertificatesStore.Count()
		if err != nil {
			respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		resp := StatsResponse{TotalCertificates: count}
		if state := s.Exporter.State(); state != nil {
			if last, ok := state.LastBackup(); ok {
				resp.LastBackupAt = &last
			}
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrCodeTaken):
		return http.StatusConflict
	case errors.Is(err, store.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, registry.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codegen.ErrExhaustedRetries):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toCertificateResponse(cert store.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:        cert.Id,
		Code:      cert.Code,
		Name:      cert.Name,
		Program:   cert.Program,
		CreatedAt: cert.CreatedAt,
		CreatedBy: cert.CreatedBy,
	}
}

func toCertificateResponses(certs []store.Certificate) []CertificateResponse {
	out := make([]CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		out = append(out, toCertificateResponse(cert))
	}
	return out
}

func ipString(id *identity.Identity) string {
	if id == nil || id.RemoteIP == nil {
		return ""
	}
	return id.RemoteIP.String()
}
