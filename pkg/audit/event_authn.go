package audit

import "fmt"

// AuthenticateEvent records a broker connect decision
type AuthenticateEvent struct {
	Username     string
	ClientIP     string
	Result       string
	Reason       string
	ResourceType string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Result == "allow" {
		return fmt.Sprintf("%s successfully authenticated", e.Username)
	}
	msg := fmt.Sprintf("%s failed to authenticate (%s)", e.Username, e.Result)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Result == "allow" {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    e.Result,
		},
	}
	if e.ResourceType != "" {
		sd[SDIDAuth]["resource_type"] = e.ResourceType
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}
