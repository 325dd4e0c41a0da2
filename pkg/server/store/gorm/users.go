package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// GetUser returns a user by ID
func (s *UsersStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

// FindUserByLogin returns a user by login
func (s *UsersStore) FindUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.first(s.db.WithContext(ctx).Where("login = ?", login))
}

func (s *UsersStore) first(q *gorm.DB) (*model.User, error) {
	var user model.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
