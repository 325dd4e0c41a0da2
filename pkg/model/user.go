package model

// User is the application user credentials are issued for.
type User struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Login     string `gorm:"column:login;not null"`
	CompanyID int64  `gorm:"column:company_id;not null"`
}

func (User) TableName() string {
	return "users"
}
