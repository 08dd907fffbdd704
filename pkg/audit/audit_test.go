package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logToString(t *testing.T, event Event) string {
	t.Helper()
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.Log(event)
	return buf.String()
}

func TestLogFormat(t *testing.T) {
	line := logToString(t, LoginEvent{
		Email:    "ops@example.org",
		ClientIP: "10.0.0.7",
		Success:  true,
	})

	// <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
	assert.True(t, strings.HasPrefix(line, "<86>1 "), "PRI should be authpriv.info: %s", line)
	assert.Contains(t, line, " certify ")
	assert.Contains(t, line, " login ")
	assert.Contains(t, line, `user="ops@example.org"`)
	assert.Contains(t, line, `ip="10.0.0.7"`)
	assert.Contains(t, line, "ops@example.org successfully signed in")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestFailureSeverity(t *testing.T) {
	line := logToString(t, LoginEvent{
		Email:        "ops@example.org",
		ClientIP:     "10.0.0.7",
		Success:      false,
		ErrorMessage: "invalid email or password",
	})

	// authpriv.warning = 10*8 + 4
	assert.True(t, strings.HasPrefix(line, "<84>1 "), line)
	assert.Contains(t, line, `result="failure"`)
	assert.Contains(t, line, "invalid email or password")
}

func TestEventMessages(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		msgID    string
		contains []string
	}{
		{
			name:     "issue success",
			event:    IssueEvent{Email: "ops@example.org", Code: "A1B2C3D4", Recipient: "Ada Lovelace", Success: true},
			msgID:    "issue",
			contains: []string{"issued certificate A1B2C3D4", "Ada Lovelace"},
		},
		{
			name:     "issue failure",
			event:    IssueEvent{Email: "ops@example.org", Recipient: "Ada Lovelace", ErrorMessage: "code space exhausted"},
			msgID:    "issue",
			contains: []string{"tried to issue", "code space exhausted"},
		},
		{
			name:     "revoke",
			event:    RevokeEvent{Email: "ops@example.org", CertificateID: "cert-1", Success: true},
			msgID:    "revoke",
			contains: []string{"revoked certificate cert-1"},
		},
		{
			name:     "reauth failure",
			event:    ReauthEvent{Email: "ops@example.org", Success: false},
			msgID:    "reauth",
			contains: []string{"failed password re-confirmation"},
		},
		{
			name:     "export",
			event:    ExportEvent{Email: "ops@example.org", Count: 42, Success: true},
			msgID:    "export",
			contains: []string{"exported 42 certificates"},
		},
		{
			name:     "import",
			event:    ImportEvent{Email: "ops@example.org", Imported: 10, Skipped: 3, Success: true},
			msgID:    "import",
			contains: []string{"imported 10 certificates (3 skipped)"},
		},
		{
			name:     "verify hit",
			event:    VerifyEvent{Code: "A1B2C3D4", Found: true},
			msgID:    "verify",
			contains: []string{"certificate A1B2C3D4 was verified"},
		},
		{
			name:     "verify miss",
			event:    VerifyEvent{Code: "NOPE0000", Found: false},
			msgID:    "verify",
			contains: []string{"verification failed for code NOPE0000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msgID, tt.event.MessageID())
			for _, want := range tt.contains {
				assert.Contains(t, tt.event.Message(), want)
			}
		})
	}
}

func TestStructuredDataEscaping(t *testing.T) {
	sd := map[string]map[string]string{
		SDIDSubject: {
			"recipient": `Ada "the Countess" [Lovelace] \o/`,
		},
	}
	formatted := formatStructuredData(sd)

	require.Contains(t, formatted, `\"the Countess\"`)
	assert.Contains(t, formatted, `\\o/`)
	assert.Contains(t, formatted, `[Lovelace\]`)
}

func TestVerifyEventHasNoUser(t *testing.T) {
	sd := VerifyEvent{Code: "A1B2C3D4", Found: true}.StructuredData()
	_, hasAuth := sd[SDIDAuth]
	assert.False(t, hasAuth, "anonymous lookups have no authenticated user")
}
