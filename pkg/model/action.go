package model

//go:generate go run github.com/dmarkham/enumer -type Action -trimprefix Action -transform lower -yaml -json -sql -output action.gen.go

// Action is the operation a permission grants.
type Action int

const (
	ActionPublish Action = iota
	ActionSubscribe
	ActionAll
)

// Covers reports whether a permission with action a grants requested.
func (a Action) Covers(requested Action) bool {
	return a == ActionAll || a == requested
}

// ParseRequestAction parses the action of an incoming ACL request. Only
// "publish" and "subscribe" are accepted; "all" is a permission-side value.
func ParseRequestAction(s string) (Action, bool) {
	switch s {
	case "publish":
		return ActionPublish, true
	case "subscribe":
		return ActionSubscribe, true
	}
	return 0, false
}
