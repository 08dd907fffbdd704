package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnpaa/certify/pkg/server/store"
)

func TestVerifyEndpoint(t *testing.T) {
	ts := newTestServer(t)

	issued := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	ts.Certs.On("FindByCode", "A1B2C3D4").Return(&store.Certificate{
		Id:        "cert-1",
		Code:      "A1B2C3D4",
		Name:      "Ada Lovelace",
		Program:   "Analytical Engines",
		CreatedAt: issued,
		CreatedBy: testAdminEmail,
	}, nil)
	ts.Certs.On("FindByCode", "NOPE0000").Return(nil, store.ErrNotFound)

	t.Run("known code", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify/A1B2C3D4", nil)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.Equal(t, "A1B2C3D4", resp.Code)
		assert.Equal(t, "Ada Lovelace", resp.Name)
		assert.Equal(t, "https://certs.example.org/verify/A1B2C3D4", resp.VerifyURL)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify/a1b2c3d4", nil)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify/NOPE0000", nil)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)

		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		// The response reveals nothing beyond invalidity
		assert.Empty(t, resp.Name)
		assert.Empty(t, resp.Program)
	})

	t.Run("no session required", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify/A1B2C3D4", nil)
		// deliberately no Authorization header
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestVerifyQREndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.Certs.On("FindByCode", "A1B2C3D4").Return(&store.Certificate{
		Id:   "cert-1",
		Code: "A1B2C3D4",
	}, nil)
	ts.Certs.On("FindByCode", "NOPE0000").Return(nil, store.ErrNotFound)

	t.Run("renders a PNG", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify/A1B2C3D4/qr.png", nil)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes()[:4])
	})

	t.Run("unknown code", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify/NOPE0000/qr.png", nil)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
