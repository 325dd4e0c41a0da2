package audit

import "fmt"

// PermissionEvent records a permission grant or revocation
type PermissionEvent struct {
	Actor      string
	Credential string
	Topic      string
	Action     string
	Operation  string
	Changed    bool
}

func (e PermissionEvent) MessageID() string {
	return "permission"
}

func (e PermissionEvent) Message() string {
	if !e.Changed {
		return fmt.Sprintf("%s: %s %s on %s for %s unchanged", e.Actor, e.Operation, e.Action, e.Topic, e.Credential)
	}
	return fmt.Sprintf("%s %s %s on %s for %s", e.Actor, pastTense(e.Operation), e.Action, e.Topic, e.Credential)
}

func (e PermissionEvent) Severity() Severity {
	return SeverityNotice
}

func (e PermissionEvent) Facility() int {
	return FacilityAuth
}

func (e PermissionEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDSubject: {
			"credential": e.Credential,
			"topic":      e.Topic,
			"action":     e.Action,
		},
		SDIDAction: {
			"operation": e.Operation,
			"changed":   fmt.Sprintf("%t", e.Changed),
		},
	}
}
