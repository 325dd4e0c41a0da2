package store

import (
	"context"
	"errors"

	"github.com/iotbase/iot-auth/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// UsersStore abstracts application user lookups
type UsersStore interface {
	// GetUser returns a user by ID
	GetUser(ctx context.Context, id int64) (*model.User, error)

	// FindUserByLogin returns a user by login
	FindUserByLogin(ctx context.Context, login string) (*model.User, error)
}
