// Package codegen produces the short public certificate codes.
//
// Codes are 8 characters of uppercase base-36 drawn from a cryptographically
// strong random source. The code space (36^8) is large enough that collisions
// are negligible in practice; the bounded retry in GenerateUnique exists to
// cap worst-case latency and to surface a broken existence check instead of
// looping forever.
package codegen

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CodeLength is the fixed length of a certificate code.
const CodeLength = 8

// MaxAttempts bounds the generate-and-check loop in GenerateUnique.
const MaxAttempts = 3

// ErrExhaustedRetries is returned when MaxAttempts generated codes all
// collided with existing certificates. Callers surface this as a user-visible
// error rather than retrying indefinitely.
var ErrExhaustedRetries = errors.New("failed to generate a unique code after maximum attempts")

// ExistsFunc reports whether a code is already taken. It must reflect all
// records visible at the time of the call, including just-written ones.
type ExistsFunc func(code string) (bool, error)

// Generate returns a fresh 8-character uppercase base-36 code.
func Generate() (string, error) {
	// 8 random bytes give 64 bits of entropy, more than the ~41.4 bits a
	// base-36 code of length 8 can hold.
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	n := binary.BigEndian.Uint64(buf[:])
	code := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(code) > CodeLength {
		return code[:CodeLength], nil
	}
	// Left-pad the rare short encoding so the length is always exactly 8.
	return strings.Repeat("0", CodeLength-len(code)) + code, nil
}

// GenerateUnique generates codes until one passes the existence check, up to
// MaxAttempts. All attempts colliding yields ErrExhaustedRetries. An error
// from the existence check itself propagates immediately: it signals a
// systemic failure, not a collision.
func GenerateUnique(exists ExistsFunc) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code, err := Generate()
		if err != nil {
			return "", err
		}

		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("code existence check failed: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhaustedRetries
}
