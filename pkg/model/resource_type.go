package model

//go:generate go run github.com/dmarkham/enumer -type ResourceType -trimprefix ResourceType -transform lower -yaml -json -sql -output resource_type.gen.go

// ResourceType tells whether a credential belongs to a user or a device.
type ResourceType int

const (
	ResourceTypeUser ResourceType = iota
	ResourceTypeDevice
)
