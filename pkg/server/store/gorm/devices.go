package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// Ensure DevicesStore implements store.DevicesStore
var _ store.DevicesStore = (*DevicesStore)(nil)

// DevicesStore implements store.DevicesStore using GORM
type DevicesStore struct {
	db *gorm.DB
}

// NewDevicesStore creates a new DevicesStore
func NewDevicesStore(db *gorm.DB) *DevicesStore {
	return &DevicesStore{db: db}
}

// ListDevices returns the devices of a company ordered by name
func (s *DevicesStore) ListDevices(ctx context.Context, companyID int64) ([]model.Device, error) {
	devices := make([]model.Device, 0)
	err := s.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name").Find(&devices).Error
	return devices, err
}

// GetDevice returns a device by ID
func (s *DevicesStore) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	var device model.Device
	if err := s.db.WithContext(ctx).First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

// GetDeviceType returns a device type by ID
func (s *DevicesStore) GetDeviceType(ctx context.Context, id int64) (*model.DeviceType, error) {
	var dt model.DeviceType
	if err := s.db.WithContext(ctx).First(&dt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrDeviceTypeNotFound
		}
		return nil, err
	}
	return &dt, nil
}
