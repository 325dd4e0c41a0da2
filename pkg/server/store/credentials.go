package store

import (
	"context"
	"errors"

	"github.com/iotbase/iot-auth/pkg/model"
)

// ErrCredentialNotFound is returned when no active credential matches
var ErrCredentialNotFound = errors.New("credential not found")

// ErrInvalidOwner is returned when a stored credential has an inconsistent owner
var ErrInvalidOwner = model.ErrInvalidOwner

// Credential is an active MQTT login
type Credential struct {
	ID          int64
	Name        string
	Password    string
	IsSuperuser bool
	Owner       model.Owner
	CompanyID   int64
}

// ResourceType returns the type of the credential's owner
func (c Credential) ResourceType() model.ResourceType {
	return c.Owner.ResourceType()
}

// CredentialStore abstracts the credential lookups used by the evaluators
type CredentialStore interface {
	// FindByNamePassword returns the active credential with the given name
	// whose password matches exactly.
	// Returns ErrCredentialNotFound if there is none.
	FindByNamePassword(ctx context.Context, name, password string) (*Credential, error)

	// FindByName returns the active credential with the given name.
	// Returns ErrCredentialNotFound if there is none.
	FindByName(ctx context.Context, name string) (*Credential, error)
}

// ProvisioningStore abstracts credential lifecycle operations
type ProvisioningStore interface {
	// FindActiveByOwner returns the active credential issued for owner.
	// Returns ErrCredentialNotFound if there is none.
	FindActiveByOwner(ctx context.Context, owner model.Owner) (*Credential, error)

	// CreateCredential stores a new active credential unless owner already
	// has one (then created=false), and ensures grants on the active
	// credential, all in one transaction.
	CreateCredential(ctx context.Context, cred Credential, grants []Grant) (result *Credential, created bool, err error)

	// CreateDeviceCredential inserts device and its first credential in one
	// transaction. newCredential is called once the device ID is known. On
	// error nothing is written and device.ID is left zero.
	CreateDeviceCredential(ctx context.Context, device *model.Device, newCredential func(*model.Device) (Credential, []Grant)) (*Credential, error)

	// RegenerateCredential deactivates the owner's active credential and
	// creates a replacement named name with the same owner, superuser flag
	// and active grants.
	// Returns ErrCredentialNotFound if owner has no active credential.
	RegenerateCredential(ctx context.Context, owner model.Owner, name, password string) (*Credential, error)
}
