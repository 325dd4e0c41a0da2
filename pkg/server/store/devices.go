package store

import (
	"context"
	"errors"

	"github.com/iotbase/iot-auth/pkg/model"
)

// ErrDeviceNotFound is returned when a device doesn't exist
var ErrDeviceNotFound = errors.New("device not found")

// ErrDeviceTypeNotFound is returned when a device type doesn't exist
var ErrDeviceTypeNotFound = errors.New("device type not found")

// DevicesStore abstracts device storage operations
type DevicesStore interface {
	// ListDevices returns the devices of a company ordered by name
	ListDevices(ctx context.Context, companyID int64) ([]model.Device, error)

	// GetDevice returns a device by ID.
	// Returns ErrDeviceNotFound if it doesn't exist.
	GetDevice(ctx context.Context, id int64) (*model.Device, error)

	// GetDeviceType returns a device type by ID.
	// Returns ErrDeviceTypeNotFound if it doesn't exist.
	GetDeviceType(ctx context.Context, id int64) (*model.DeviceType, error)
}
