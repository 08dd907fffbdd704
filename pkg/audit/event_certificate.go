package audit

import "fmt"

// IssueEvent represents a certificate issuance audit event
type IssueEvent struct {
	Email        string
	ClientIP     string
	Code         string
	Recipient    string
	Success      bool
	ErrorMessage string
}

func (e IssueEvent) MessageID() string {
	return "issue"
}

func (e IssueEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s issued certificate %s to %s", e.Email, e.Code, e.Recipient)
	}
	msg := fmt.Sprintf("%s tried to issue a certificate to %s", e.Email, e.Recipient)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e IssueEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e IssueEvent) Facility() int {
	return FacilityAuthPriv
}

func (e IssueEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDSubject: {
			"recipient": e.Recipient,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "issue",
			"result":    result,
		},
	}
	if e.Code != "" {
		sd[SDIDSubject]["code"] = e.Code
	}
	return sd
}

// RevokeEvent represents a certificate deletion audit event
type RevokeEvent struct {
	Email         string
	ClientIP      string
	CertificateID string
	Success       bool
	ErrorMessage  string
}

func (e RevokeEvent) MessageID() string {
	return "revoke"
}

func (e RevokeEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s revoked certificate %s", e.Email, e.CertificateID)
	}
	msg := fmt.Sprintf("%s tried to revoke certificate %s", e.Email, e.CertificateID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RevokeEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RevokeEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RevokeEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDSubject: {
			"certificate": e.CertificateID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "revoke",
			"result":    result,
		},
	}
}

// VerifyEvent represents a public verification lookup audit event
type VerifyEvent struct {
	ClientIP string
	Code     string
	Found    bool
}

func (e VerifyEvent) MessageID() string {
	return "verify"
}

func (e VerifyEvent) Message() string {
	if e.Found {
		return fmt.Sprintf("certificate %s was verified", e.Code)
	}
	return fmt.Sprintf("verification failed for code %s", e.Code)
}

func (e VerifyEvent) Severity() Severity {
	return SeverityInfo
}

func (e VerifyEvent) Facility() int {
	return FacilityAuth
}

func (e VerifyEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Found {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDSubject: {
			"code": e.Code,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "verify",
			"result":    result,
		},
	}
}
