package identity

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	expected := &Identity{
		Email:     "ops@example.org",
		SessionID: "7f3f2a14-9a3e-4d8e-b7ab-0a4f0c2d7e61",
	}
	ctx = Set(ctx, expected)

	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected.Email, id.Email)
	assert.Equal(t, expected.SessionID, id.SessionID)
}

func TestWithRemoteIP(t *testing.T) {
	ip := net.ParseIP("192.168.1.100")
	id := (&Identity{Email: "ops@example.org"}).WithRemoteIP(ip)
	assert.Equal(t, ip, id.RemoteIP)
}
