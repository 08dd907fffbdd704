package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnpaa/certify/pkg/server/store"
)

func TestLoginEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.withTestAdmin(t)
	ts.Admins.On("FetchAdmin", "nobody@example.org").Return(nil, store.ErrAdminNotFound)

	t.Run("valid credentials return a token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/login",
			strings.NewReader(`{"email":"ops@example.org","password":"sup3r-secret"}`))
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.False(t, resp.ExpiresAt.IsZero())

		claims, err := ts.Authenticator.VerifyToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.org", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/login",
			strings.NewReader(`{"email":"ops@example.org","password":"not-it"}`))
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password.")
	})

	t.Run("unknown user gets the same message", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/login",
			strings.NewReader(`{"email":"nobody@example.org","password":"sup3r-secret"}`))
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password.")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/login", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWhoamiEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.withTestAdmin(t)

	t.Run("with session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", ts.authHeader(t))
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp WhoamiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, testAdminEmail, resp.Email)
		assert.NotEmpty(t, resp.SessionID)
	})

	t.Run("without session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
