package endpoints

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/alnpaa/certify/pkg/audit"
	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/identity"
	"github.com/alnpaa/certify/pkg/notify"
	"github.com/alnpaa/certify/pkg/server"
)

// LoginRequest is the body of POST /authn/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success response from POST /authn/login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterSessionEndpoints registers the login and whoami endpoints
func RegisterSessionEndpoints(s *server.Server) {
	s.Router.HandleFunc("/authn/login", handleLogin(s.Authenticator)).Methods("POST")

	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(s.SessionMiddleware().Middleware)
	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleLogin(authenticator *authn.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		admin, err := authenticator.Authenticate(req.Email, req.Password)
		if err != nil {
			// The failure response is immediate. Login errors must never
			// wait on a timer.
			audit.Log(audit.LoginEvent{
				Email:        req.Email,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		token, err := authenticator.IssueToken(admin.Email)
		if err != nil {
			respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		claims, err := authenticator.VerifyToken(token)
		if err != nil {
			respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"notification": notify.ForError(err),
			})
			return
		}

		audit.Log(audit.LoginEvent{
			Email:    admin.Email,
			ClientIP: clientIP(r),
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, LoginResponse{
			Token:     token,
			ExpiresAt: claims.ExpiresAt,
		})
	}
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			Email:     id.Email,
			SessionID: id.SessionID,
			ExpiresAt: id.ExpiresAt,
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
