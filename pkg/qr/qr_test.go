package qr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationURL(t *testing.T) {
	assert.Equal(t,
		"https://certs.example.org/verify/A1B2C3D4",
		VerificationURL("https://certs.example.org", "A1B2C3D4"),
	)

	// Trailing slash does not double up
	assert.Equal(t,
		"https://certs.example.org/verify/A1B2C3D4",
		VerificationURL("https://certs.example.org/", "A1B2C3D4"),
	)
}

func TestPNG(t *testing.T) {
	png, err := PNG("https://certs.example.org", "A1B2C3D4")
	require.NoError(t, err)

	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}))
}
