package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/identity"
)

func TestSessionMiddleware(t *testing.T) {
	authenticator := authn.New(nil, []byte("signing-secret"), time.Hour)
	mw := NewSessionAuthenticator(authenticator)

	var gotIdentity *identity.Identity
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes identity through", func(t *testing.T) {
		token, err := authenticator.IssueToken("ops@example.org")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/certificates", nil)
		req.Header.Set("Authorization", `Token token="`+token+`"`)
		req.RemoteAddr = "10.0.0.7:52114"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, gotIdentity)
		assert.Equal(t, "ops@example.org", gotIdentity.Email)
		assert.NotEmpty(t, gotIdentity.SessionID)
		assert.Equal(t, "10.0.0.7", gotIdentity.RemoteIP.String())
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/certificates", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/certificates", nil)
		req.Header.Set("Authorization", "Bearer not-the-right-shape")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Malformed authorization header")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := authn.New(nil, []byte("signing-secret"), -time.Minute)
		token, err := expired.IssueToken("ops@example.org")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/certificates", nil)
		req.Header.Set("Authorization", `Token token="`+token+`"`)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
