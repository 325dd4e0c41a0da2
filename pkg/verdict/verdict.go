// Package verdict holds the three-valued outcome of an authentication or
// authorization decision.
//
// Allow and Deny are security decisions. Ignore means the backend declines to
// decide (malformed request or internal fault) and lets the broker fall
// through to its next authenticator.
package verdict

import "github.com/iotbase/iot-auth/pkg/model"

// Result is the broker-facing decision.
type Result string

const (
	ResultAllow  Result = "allow"
	ResultDeny   Result = "deny"
	ResultIgnore Result = "ignore"
)

// Reasons reported alongside deny and ignore verdicts.
const (
	ReasonCredentialsRequired = "username and password required"
	ReasonInvalidCredentials  = "invalid credentials"
	ReasonUsernameRequired    = "username required"
	ReasonTopicRequired       = "topic required"
	ReasonInvalidAction       = "invalid action"
	ReasonCredentialNotFound  = "credential not found"
	ReasonNoPermissions       = "no permissions found"
	ReasonNoMatchingTopic     = "no matching topic permission"
	ReasonInternalError       = "internal error"
)

// Verdict is the outcome of one evaluation.
type Verdict struct {
	Result       Result
	Reason       string
	IsSuperuser  bool
	ResourceType *model.ResourceType
}

// Allow returns an allow verdict.
func Allow() Verdict {
	return Verdict{Result: ResultAllow}
}

// AllowCredential returns an allow verdict carrying the credential's
// superuser flag and resource type.
func AllowCredential(superuser bool, rt model.ResourceType) Verdict {
	return Verdict{Result: ResultAllow, IsSuperuser: superuser, ResourceType: &rt}
}

// Deny returns a deny verdict with reason.
func Deny(reason string) Verdict {
	return Verdict{Result: ResultDeny, Reason: reason}
}

// Ignore returns an ignore verdict with reason.
func Ignore(reason string) Verdict {
	return Verdict{Result: ResultIgnore, Reason: reason}
}

func (v Verdict) Allowed() bool {
	return v.Result == ResultAllow
}

func (v Verdict) String() string {
	if v.Reason == "" {
		return string(v.Result)
	}
	return string(v.Result) + ": " + v.Reason
}
