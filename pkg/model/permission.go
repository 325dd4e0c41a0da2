package model

// Permission is a row of iot_permissions. Inactive rows are kept as history
// and never consulted during authorization.
type Permission struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	CredentialID int64  `gorm:"column:credential_id;not null"`
	Topic        string `gorm:"column:topic;not null"`
	Action       Action `gorm:"column:action;type:text;not null"`
	Active       bool   `gorm:"column:active;not null"`
}

func (Permission) TableName() string {
	return "iot_permissions"
}
