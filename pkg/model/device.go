package model

import "time"

// Device is a row of iot_devices.
type Device struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	UID          string    `gorm:"column:device_uid" json:"device_uid,omitempty"`
	DeviceTypeID *int64    `gorm:"column:device_type_id" json:"device_type_id,omitempty"`
	IsSuperuser  bool      `gorm:"column:is_superuser;not null" json:"is_superuser"`
	CompanyID    int64     `gorm:"column:company_id;not null" json:"company_id"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Device) TableName() string {
	return "iot_devices"
}

// DeviceType is a row of iot_device_types.
type DeviceType struct {
	ID          int64  `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description" json:"description,omitempty"`
	CompanyID   int64  `gorm:"column:company_id;not null" json:"company_id"`
}

func (DeviceType) TableName() string {
	return "iot_device_types"
}
