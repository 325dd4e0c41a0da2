package model

import "fmt"

// Owner is the single entity a credential belongs to: a UserOwner or a
// DeviceOwner. The sealed interface makes "both" and "neither" unrepresentable.
type Owner interface {
	ResourceType() ResourceType
	OwnerID() int64
	isOwner()
}

// UserOwner marks a credential issued for an application user.
type UserOwner struct {
	ID int64
}

func (UserOwner) ResourceType() ResourceType { return ResourceTypeUser }
func (o UserOwner) OwnerID() int64           { return o.ID }
func (UserOwner) isOwner()                   {}

func (o UserOwner) String() string { return fmt.Sprintf("user:%d", o.ID) }

// DeviceOwner marks a credential issued for a device.
type DeviceOwner struct {
	ID int64
}

func (DeviceOwner) ResourceType() ResourceType { return ResourceTypeDevice }
func (o DeviceOwner) OwnerID() int64           { return o.ID }
func (DeviceOwner) isOwner()                   {}

func (o DeviceOwner) String() string { return fmt.Sprintf("device:%d", o.ID) }
