package audit

import "fmt"

// ACLCheckEvent records a publish or subscribe decision
type ACLCheckEvent struct {
	Username string
	ClientIP string
	Topic    string
	Action   string
	Result   string
	Reason   string
}

func (e ACLCheckEvent) MessageID() string {
	return "acl"
}

func (e ACLCheckEvent) Message() string {
	msg := fmt.Sprintf("%s checked %s on %s: %s", e.Username, e.Action, e.Topic, e.Result)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e ACLCheckEvent) Severity() Severity {
	if e.Result == "allow" {
		return SeverityInfo
	}
	return SeverityNotice
}

func (e ACLCheckEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ACLCheckEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"topic":  e.Topic,
			"action": e.Action,
		},
		SDIDAction: {
			"operation": "check",
			"result":    e.Result,
		},
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}
