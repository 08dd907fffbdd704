package store

import (
	"errors"
	"time"
)

// ErrAdminNotFound is returned when an admin user doesn't exist
var ErrAdminNotFound = errors.New("admin user not found")

// AdminUser represents an administrator account
type AdminUser struct {
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// AdminsStore abstracts admin user storage operations
type AdminsStore interface {
	// FetchAdmin retrieves an admin user by email.
	// Returns ErrAdminNotFound if no such user exists.
	FetchAdmin(email string) (*AdminUser, error)

	// UpsertAdmin creates an admin user or replaces its password hash.
	UpsertAdmin(email string, passwordHash []byte) error
}
