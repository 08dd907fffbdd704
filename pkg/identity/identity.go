// Package identity carries the authenticated admin through a request.
//
// The authn package handles parsing and validating the raw session token.
// This package builds on that to represent who is acting: the admin's
// email, the session the request belongs to, and the client address,
// stored in the request context by the session middleware and read back
// by handlers and the audit log.
package identity

import (
	"context"
	"net"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated admin for a request.
type Identity struct {
	// Session claims
	Email     string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// WithRemoteIP sets the client IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
