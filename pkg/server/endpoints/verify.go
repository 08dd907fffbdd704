package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alnpaa/certify/pkg/audit"
	"github.com/alnpaa/certify/pkg/qr"
	"github.com/alnpaa/certify/pkg/server"
	"github.com/alnpaa/certify/pkg/server/store"
)

// VerifyResponse is the public verification result. It exposes only the
// public fields of a certificate: no storage id, no issuing admin.
type VerifyResponse struct {
	Valid     bool      `json:"valid"`
	Code      string    `json:"code,omitempty"`
	Name      string    `json:"name,omitempty"`
	Program   string    `json:"program,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
	VerifyURL string    `json:"verify_url,omitempty"`
}

// RegisterVerifyEndpoints registers the unauthenticated verification
// endpoints
func RegisterVerifyEndpoints(s *server.Server) {
	s.Router.HandleFunc("/verify/{code}", handleVerify(s)).Methods("GET")
	s.Router.HandleFunc("/verify/{code}/qr.png", handleVerifyQR(s)).Methods("GET")
}

func handleVerify(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := mux.Vars(r)["code"]

		cert, err := s.Registry.Resolve(code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				audit.Log(audit.VerifyEvent{ClientIP: clientIP(r), Code: code, Found: false})
				respondWithJSON(w, http.StatusNotFound, VerifyResponse{Valid: false})
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Verification is temporarily unavailable")
			return
		}

		audit.Log(audit.VerifyEvent{ClientIP: clientIP(r), Code: cert.Code, Found: true})
		respondWithJSON(w, http.StatusOK, VerifyResponse{
			Valid:     true,
			Code:      cert.Code,
			Name:      cert.Name,
			Program:   cert.Program,
			IssuedAt:  cert.CreatedAt,
			VerifyURL: qr.VerificationURL(s.Config.VerifyBaseURL, cert.Code),
		})
	}
}

func handleVerifyQR(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := mux.Vars(r)["code"]

		cert, err := s.Registry.Resolve(code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithJSON(w, http.StatusNotFound, VerifyResponse{Valid: false})
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Verification is temporarily unavailable")
			return
		}

		png, err := qr.PNG(s.Config.VerifyBaseURL, cert.Code)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Could not render QR code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
