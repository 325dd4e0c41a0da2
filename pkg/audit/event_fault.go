package audit

import "fmt"

// Fault categories
const (
	CategoryAuthentication = "authentication"
	CategoryAuthorization  = "authorization"
)

// FaultEvent records an internal fault that was turned into an ignore verdict
type FaultEvent struct {
	Category string
	Username string
	Topic    string
	Err      string
}

func (e FaultEvent) MessageID() string {
	return "fault"
}

func (e FaultEvent) Message() string {
	if e.Topic != "" {
		return fmt.Sprintf("internal error during %s of %s on %s: %s", e.Category, e.Username, e.Topic, e.Err)
	}
	return fmt.Sprintf("internal error during %s of %s: %s", e.Category, e.Username, e.Err)
}

func (e FaultEvent) Severity() Severity {
	return SeverityError
}

func (e FaultEvent) Facility() int {
	return FacilityAuthPriv
}

func (e FaultEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDFault: {
			"category": e.Category,
			"error":    e.Err,
		},
	}
	if e.Topic != "" {
		sd[SDIDSubject] = map[string]string{"topic": e.Topic}
	}
	return sd
}
