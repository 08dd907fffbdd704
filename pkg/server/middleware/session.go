// Package middleware provides the HTTP session authentication layer.
package middleware

import (
	"net"
	"net/http"
	"regexp"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/identity"
)

var tokenRegex = regexp.MustCompile(`^Token token="(.*)"`)

// SessionAuthenticator is middleware that validates session tokens
type SessionAuthenticator struct {
	Authenticator *authn.Authenticator
}

// NewSessionAuthenticator creates a new session authenticator middleware
func NewSessionAuthenticator(authenticator *authn.Authenticator) *SessionAuthenticator {
	return &SessionAuthenticator{Authenticator: authenticator}
}

// Middleware returns an HTTP middleware that validates session tokens and
// stores the resulting identity in the request context
func (s *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)

		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := s.Authenticator.VerifyToken(tokenMatches[1])
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid or expired session token"))
			return
		}

		id := &identity.Identity{
			Email:     claims.Email,
			SessionID: claims.SessionID,
			IssuedAt:  claims.IssuedAt,
			ExpiresAt: claims.ExpiresAt,
		}
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			id.WithRemoteIP(net.ParseIP(host))
		}

		r = r.WithContext(identity.Set(r.Context(), id))
		next.ServeHTTP(w, r)
	})
}
