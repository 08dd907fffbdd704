package audit

import "fmt"

// LoginEvent represents an admin sign-in audit event
type LoginEvent struct {
	Email        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully signed in", e.Email)
	}
	msg := fmt.Sprintf("%s failed to sign in", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result,
		},
	}
}

// ReauthEvent represents a password re-confirmation before a destructive
// operation
type ReauthEvent struct {
	Email    string
	ClientIP string
	Success  bool
}

func (e ReauthEvent) MessageID() string {
	return "reauth"
}

func (e ReauthEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s re-confirmed their password", e.Email)
	}
	return fmt.Sprintf("%s failed password re-confirmation", e.Email)
}

func (e ReauthEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ReauthEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ReauthEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "reauth",
			"result":    result,
		},
	}
}
