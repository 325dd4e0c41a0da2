package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = mockDB.Close()
	})
	return gormDB, mock
}

var credentialColumns = []string{
	"id", "name", "password", "is_superuser", "resource_type",
	"user_id", "device_id", "company_id", "active", "created_at",
}

func deviceCredentialRow(id int64, name, password string, deviceID int64, superuser bool) *sqlmock.Rows {
	return sqlmock.NewRows(credentialColumns).
		AddRow(id, name, password, superuser, "device", nil, deviceID, int64(1), true, time.Now())
}

func userCredentialRow(id int64, name, password string, userID int64) *sqlmock.Rows {
	return sqlmock.NewRows(credentialColumns).
		AddRow(id, name, password, false, "user", userID, nil, int64(1), true, time.Now())
}
