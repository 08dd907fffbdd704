// Package authn implements admin authentication: credential verification
// against bcrypt hashes, session token issue/verify, and the
// re-authentication primitive used as the gate before destructive
// operations.
package authn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alnpaa/certify/pkg/server/store"
)

// ErrInvalidCredentials is returned for a bad email/password pair. Unknown
// user and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidToken is returned for missing, malformed, expired, or
// wrongly-signed session tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the verified contents of a session token.
type Claims struct {
	Email     string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authenticator verifies admin credentials and manages session tokens.
type Authenticator struct {
	admins store.AdminsStore
	secret []byte
	ttl    time.Duration
}

// New creates an Authenticator. secret signs session tokens (HS256); ttl is
// the session lifetime.
func New(admins store.AdminsStore, secret []byte, ttl time.Duration) *Authenticator {
	return &Authenticator{admins: admins, secret: secret, ttl: ttl}
}

// Authenticate verifies an email/password pair and returns the admin user.
func (a *Authenticator) Authenticate(email, password string) (*store.AdminUser, error) {
	admin, err := a.admins.FetchAdmin(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// Reauthenticate re-verifies a credential without touching the session.
// It is the gate callers must pass before delete.
func (a *Authenticator) Reauthenticate(email, password string) error {
	_, err := a.Authenticate(email, password)
	return err
}

// IssueToken mints a session token for an authenticated admin.
func (a *Authenticator) IssueToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": normalizeEmail(email),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(a.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// VerifyToken parses and validates a session token.
func (a *Authenticator) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
			}
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, _ := claims["sub"].(string)
	sessionID, _ := claims["jti"].(string)
	if email == "" || sessionID == "" {
		return nil, ErrInvalidToken
	}

	out := &Claims{Email: email, SessionID: sessionID}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) ([]byte, error) {
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
