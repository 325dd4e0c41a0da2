package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
	"github.com/iotbase/iot-auth/pkg/topic"
)

// Ensure PermissionsStore implements the permission interfaces
var (
	_ store.PermissionStore = (*PermissionsStore)(nil)
	_ store.GrantStore      = (*PermissionsStore)(nil)
)

// PermissionsStore implements store.PermissionStore and store.GrantStore
// using GORM
type PermissionsStore struct {
	db *gorm.DB
}

// NewPermissionsStore creates a new PermissionsStore
func NewPermissionsStore(db *gorm.DB) *PermissionsStore {
	return &PermissionsStore{db: db}
}

// FindActiveByCredential returns the active permissions for the requested
// action or "all".
func (s *PermissionsStore) FindActiveByCredential(ctx context.Context, credentialID int64, action model.Action) ([]store.Permission, error) {
	var rows []model.Permission
	err := s.db.WithContext(ctx).
		Where("credential_id = ? AND active = ? AND action IN ?", credentialID, true, []string{action.String(), model.ActionAll.String()}).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPermissions(rows), nil
}

// EnsurePermission adds the grant unless an identical active one exists.
func (s *PermissionsStore) EnsurePermission(ctx context.Context, credentialID int64, grant store.Grant) (bool, error) {
	return ensurePermission(s.db.WithContext(ctx), credentialID, grant)
}

// RevokePermission deactivates the matching active permission.
func (s *PermissionsStore) RevokePermission(ctx context.Context, credentialID int64, grant store.Grant) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&model.Permission{}).
		Where("credential_id = ? AND topic = ? AND action = ? AND active = ?", credentialID, grant.Topic, grant.Action.String(), true).
		Update("active", false)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListPermissions returns every active permission of a credential.
func (s *PermissionsStore) ListPermissions(ctx context.Context, credentialID int64) ([]store.Permission, error) {
	var rows []model.Permission
	err := s.db.WithContext(ctx).
		Where("credential_id = ? AND active = ?", credentialID, true).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPermissions(rows), nil
}

// ensurePermission relies on the partial unique index over active
// (credential_id, topic, action) to make the insert idempotent.
func ensurePermission(db *gorm.DB, credentialID int64, grant store.Grant) (bool, error) {
	if err := topic.Validate(grant.Topic); err != nil {
		return false, err
	}
	if !grant.Action.IsAAction() {
		return false, fmt.Errorf("invalid permission action %s", grant.Action)
	}

	row := model.Permission{
		CredentialID: credentialID,
		Topic:        grant.Topic,
		Action:       grant.Action,
		Active:       true,
	}
	tx := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if tx.Error != nil {
		return false, fmt.Errorf("failed to grant %s on %s: %w", grant.Action, grant.Topic, tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func toPermissions(rows []model.Permission) []store.Permission {
	perms := make([]store.Permission, 0, len(rows))
	for _, r := range rows {
		perms = append(perms, store.Permission{
			ID:           r.ID,
			CredentialID: r.CredentialID,
			Topic:        r.Topic,
			Action:       r.Action,
		})
	}
	return perms
}
