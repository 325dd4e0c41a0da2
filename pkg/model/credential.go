package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOwner is returned when a credential row does not name exactly one
// owner consistent with its resource type.
var ErrInvalidOwner = errors.New("credential must have exactly one owner matching its resource type")

// Credential is a row of iot_credentials.
type Credential struct {
	ID           int64        `gorm:"column:id;primaryKey"`
	Name         string       `gorm:"column:name;not null"`
	Password     string       `gorm:"column:password;not null"`
	IsSuperuser  bool         `gorm:"column:is_superuser;not null"`
	ResourceType ResourceType `gorm:"column:resource_type;type:text;not null"`
	UserID       *int64       `gorm:"column:user_id"`
	DeviceID     *int64       `gorm:"column:device_id"`
	CompanyID    int64        `gorm:"column:company_id;not null"`
	Active       bool         `gorm:"column:active;not null"`
	CreatedAt    time.Time    `gorm:"column:created_at"`
}

func (Credential) TableName() string {
	return "iot_credentials"
}

// NewCredential builds an active credential row for owner.
func NewCredential(name, password string, owner Owner, companyID int64, superuser bool) Credential {
	c := Credential{
		Name:        name,
		Password:    password,
		IsSuperuser: superuser,
		CompanyID:   companyID,
		Active:      true,
	}
	c.SetOwner(owner)
	return c
}

// SetOwner writes the owner columns from o, clearing the other one.
func (c *Credential) SetOwner(o Owner) {
	id := o.OwnerID()
	c.ResourceType = o.ResourceType()
	c.UserID, c.DeviceID = nil, nil
	switch o.(type) {
	case UserOwner:
		c.UserID = &id
	case DeviceOwner:
		c.DeviceID = &id
	}
}

// Owner decodes the owner columns.
func (c Credential) Owner() (Owner, error) {
	switch {
	case c.UserID != nil && c.DeviceID == nil && c.ResourceType == ResourceTypeUser:
		return UserOwner{ID: *c.UserID}, nil
	case c.DeviceID != nil && c.UserID == nil && c.ResourceType == ResourceTypeDevice:
		return DeviceOwner{ID: *c.DeviceID}, nil
	}
	return nil, fmt.Errorf("credential %d: %w", c.ID, ErrInvalidOwner)
}
