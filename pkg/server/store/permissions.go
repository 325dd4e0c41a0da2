package store

import (
	"context"

	"github.com/iotbase/iot-auth/pkg/model"
)

// Permission is an active topic rule
type Permission struct {
	ID           int64
	CredentialID int64
	Topic        string
	Action       model.Action
}

// Grant is a topic rule to be written
type Grant struct {
	Topic  string       `yaml:"topic" json:"topic"`
	Action model.Action `yaml:"action" json:"action"`
}

// PermissionStore abstracts the permission lookup used by the ACL evaluator
type PermissionStore interface {
	// FindActiveByCredential returns the active permissions of a credential
	// whose action is the requested one or "all", in insertion order.
	FindActiveByCredential(ctx context.Context, credentialID int64, action model.Action) ([]Permission, error)
}

// GrantStore abstracts permission writes
type GrantStore interface {
	// EnsurePermission adds an active permission unless an identical active
	// one exists. Reports whether a row was created.
	EnsurePermission(ctx context.Context, credentialID int64, grant Grant) (bool, error)

	// RevokePermission deactivates the matching active permission.
	// Reports whether a row was changed.
	RevokePermission(ctx context.Context, credentialID int64, grant Grant) (bool, error)

	// ListPermissions returns every active permission of a credential.
	ListPermissions(ctx context.Context, credentialID int64) ([]Permission, error)
}
