package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/server/store"
)

var deviceColumns = []string{"id", "name", "device_uid", "device_type_id", "is_superuser", "company_id", "created_at"}

func TestDevicesStore_ListDevices(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDevicesStore(db)

	mock.ExpectQuery(`SELECT \* FROM "iot_devices" WHERE company_id = \$1 ORDER BY name`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(deviceColumns).
			AddRow(int64(42), "boiler", "uid-42", nil, false, int64(1), time.Now()))

	devices, err := s.ListDevices(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "boiler", devices[0].Name)
	assert.Nil(t, devices[0].DeviceTypeID)
}

func TestDevicesStore_GetDevice(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDevicesStore(db)

	mock.ExpectQuery(`SELECT \* FROM "iot_devices" WHERE "iot_devices"."id" = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(deviceColumns))

	_, err := s.GetDevice(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrDeviceNotFound)
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.CheckConnectivity(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
