package audit

import "fmt"

// CredentialEvent records credential creation or regeneration
type CredentialEvent struct {
	Actor     string
	Name      string
	Owner     string
	Operation string
	Success   bool
	Error     string
}

func (e CredentialEvent) MessageID() string {
	return "credential"
}

func (e CredentialEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s credential %s for %s", e.Actor, pastTense(e.Operation), e.Name, e.Owner)
	}
	return fmt.Sprintf("%s failed to %s credential %s for %s: %s", e.Actor, e.Operation, e.Name, e.Owner, e.Error)
}

func (e CredentialEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e CredentialEvent) Facility() int {
	return FacilityAuth
}

func (e CredentialEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"credential": e.Name,
			"owner":      e.Owner,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}

func pastTense(op string) string {
	switch op {
	case "create":
		return "created"
	case "regenerate":
		return "regenerated"
	case "grant":
		return "granted"
	case "revoke":
		return "revoked"
	}
	return op
}
