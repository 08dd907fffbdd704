// Package notify maps operation outcomes to the user-facing messages the
// admin UI shows. The mapping is synchronous: every error resolves to a
// message at the point of failure, never on a delay.
package notify

import (
	"errors"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/codegen"
	"github.com/alnpaa/certify/pkg/registry"
	"github.com/alnpaa/certify/pkg/server/store"
)

// Notification is a display-ready message.
type Notification struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// ForError maps an error to its notification. Unknown errors map to a
// generic message so internals never leak to the UI.
func ForError(err error) Notification {
	var validationErr *backup.ValidationError

	switch {
	case errors.Is(err, authn.ErrInvalidCredentials):
		return Notification{CategoryError, "Invalid email or password."}
	case errors.Is(err, authn.ErrInvalidToken):
		return Notification{CategoryWarning, "Your session has expired. Please sign in again."}
	case errors.Is(err, registry.ErrInvalidInput):
		return Notification{CategoryWarning, "Recipient name and program are required."}
	case errors.Is(err, codegen.ErrExhaustedRetries):
		return Notification{CategoryError, "Could not generate a unique certificate code. Please try again."}
	case errors.Is(err, store.ErrCodeTaken):
		return Notification{CategoryError, "That certificate code is already in use."}
	case errors.Is(err, store.ErrNotFound):
		return Notification{CategoryWarning, "No certificate found for that code."}
	case errors.Is(err, store.ErrPermissionDenied):
		return Notification{CategoryError, "You do not have permission to do that."}
	case errors.As(err, &validationErr):
		return Notification{CategoryError, "The backup file contains invalid entries. Nothing was imported."}
	case errors.Is(err, backup.ErrParse):
		return Notification{CategoryError, "That file is not a valid backup."}
	default:
		return Notification{CategoryError, "Something went wrong. Please try again."}
	}
}

// Issued is the notification for a successful certificate issuance.
func Issued(code string) Notification {
	return Notification{CategorySuccess, "Certificate " + code + " issued."}
}

// Revoked is the notification for a successful deletion.
func Revoked() Notification {
	return Notification{CategorySuccess, "Certificate deleted."}
}

// Imported summarizes a completed backup import.
func Imported(result backup.Result) Notification {
	if result.Imported == 0 {
		return Notification{CategoryInfo, "All certificates in the backup already exist."}
	}
	return Notification{CategorySuccess, "Backup imported."}
}
