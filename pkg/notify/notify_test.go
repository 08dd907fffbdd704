package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/codegen"
	"github.com/alnpaa/certify/pkg/registry"
	"github.com/alnpaa/certify/pkg/server/store"
)

func TestForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category Category
		message  string
	}{
		{
			name:     "bad credentials",
			err:      authn.ErrInvalidCredentials,
			category: CategoryError,
			message:  "Invalid email or password.",
		},
		{
			name:     "expired session",
			err:      authn.ErrInvalidToken,
			category: CategoryWarning,
			message:  "Your session has expired. Please sign in again.",
		},
		{
			name:     "missing fields",
			err:      registry.ErrInvalidInput,
			category: CategoryWarning,
			message:  "Recipient name and program are required.",
		},
		{
			name:     "code space exhausted",
			err:      codegen.ErrExhaustedRetries,
			category: CategoryError,
			message:  "Could not generate a unique certificate code. Please try again.",
		},
		{
			name:     "unknown code",
			err:      store.ErrNotFound,
			category: CategoryWarning,
			message:  "No certificate found for that code.",
		},
		{
			name:     "invalid backup record",
			err:      &backup.ValidationError{Index: 3},
			category: CategoryError,
			message:  "The backup file contains invalid entries. Nothing was imported.",
		},
		{
			name:     "unparseable backup",
			err:      backup.ErrParse,
			category: CategoryError,
			message:  "That file is not a valid backup.",
		},
		{
			name:     "wrapped errors unwrap",
			err:      fmt.Errorf("adding certificate: %w", store.ErrCodeTaken),
			category: CategoryError,
			message:  "That certificate code is already in use.",
		},
		{
			name:     "unknown error stays generic",
			err:      errors.New("pq: connection refused"),
			category: CategoryError,
			message:  "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ForError(tt.err)
			assert.Equal(t, tt.category, n.Category)
			assert.Equal(t, tt.message, n.Message)
		})
	}
}

func TestUnknownErrorNeverLeaksDetail(t *testing.T) {
	n := ForError(errors.New("pq: password authentication failed for user certify"))
	assert.NotContains(t, n.Message, "pq:")
	assert.NotContains(t, n.Message, "certify")
}

func TestImported(t *testing.T) {
	assert.Equal(t, CategorySuccess, Imported(backup.Result{Imported: 5}).Category)
	assert.Equal(t, CategoryInfo, Imported(backup.Result{Imported: 0, Skipped: 5}).Category)
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(Notification{Category: CategoryWarning, Message: "careful"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"warning","message":"careful"}`, string(data))

	var n Notification
	require.NoError(t, json.Unmarshal(data, &n))
	assert.Equal(t, CategoryWarning, n.Category)
}
