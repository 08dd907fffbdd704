package audit

import "fmt"

// ExportEvent represents a registry backup export audit event
type ExportEvent struct {
	Email        string
	ClientIP     string
	Count        int
	Success      bool
	ErrorMessage string
}

func (e ExportEvent) MessageID() string {
	return "export"
}

func (e ExportEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s exported %d certificates", e.Email, e.Count)
	}
	msg := fmt.Sprintf("%s tried to export the registry", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ExportEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ExportEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ExportEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDSubject: {
			"count": fmt.Sprintf("%d", e.Count),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "export",
			"result":    result,
		},
	}
}

// ImportEvent represents a registry backup import audit event
type ImportEvent struct {
	Email        string
	ClientIP     string
	Imported     int
	Skipped      int
	Success      bool
	ErrorMessage string
}

func (e ImportEvent) MessageID() string {
	return "import"
}

func (e ImportEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s imported %d certificates (%d skipped)", e.Email, e.Imported, e.Skipped)
	}
	msg := fmt.Sprintf("%s tried to import a backup", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ImportEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ImportEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ImportEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDSubject: {
			"imported": fmt.Sprintf("%d", e.Imported),
			"skipped":  fmt.Sprintf("%d", e.Skipped),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "import",
			"result":    result,
		},
	}
}
