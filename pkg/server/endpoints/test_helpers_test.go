package endpoints

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/server"
	"github.com/alnpaa/certify/pkg/server/store"
)

const (
	testAdminEmail    = "ops@example.org"
	testAdminPassword = "sup3r-secret"
)

type testServer struct {
	*server.Server
	Certs  *MockCertificatesStore
	Admins *MockAdminsStore
	Health *MockHealthStore
}

// newTestServer builds a Server over mock stores with all endpoints
// registered.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		BindAddress:       "127.0.0.1",
		Port:              0,
		SessionSecret:     "test-signing-secret",
		SessionTTLMinutes: 60,
		VerifyBaseURL:     "https://certs.example.org",
		StateDir:          t.TempDir(),
		PageSize:          5,
		LogLevel:          "error",
		LogFormat:         "text",
	}

	certs := NewMockCertificatesStore()
	admins := NewMockAdminsStore()
	health := NewMockHealthStore()

	srv := server.NewServer(cfg, nil, certs, admins, health)
	RegisterAll(srv)

	return &testServer{Server: srv, Certs: certs, Admins: admins, Health: health}
}

// withTestAdmin stubs the admin lookup for the fixture credentials.
func (ts *testServer) withTestAdmin(t *testing.T) {
	t.Helper()

	hash, err := authn.HashPassword(testAdminPassword)
	require.NoError(t, err)
	ts.Admins.On("FetchAdmin", testAdminEmail).Return(&store.AdminUser{
		Email:        testAdminEmail,
		PasswordHash: hash,
	}, nil)
}

// authHeader issues a session token for the fixture admin and formats it as
// the Authorization header value.
func (ts *testServer) authHeader(t *testing.T) string {
	t.Helper()

	token, err := ts.Authenticator.IssueToken(testAdminEmail)
	require.NoError(t, err)
	return `Token token="` + token + `"`
}
