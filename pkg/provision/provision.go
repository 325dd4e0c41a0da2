package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// ErrUnknownOwner is returned when the owner of a credential can't be resolved
var ErrUnknownOwner = errors.New("unknown credential owner")

// Provisioner creates and rotates credentials
type Provisioner struct {
	credentials store.ProvisioningStore
	users       store.UsersStore
	devices     store.DevicesStore
	audit       audit.Sink
	logger      *slog.Logger

	// password is swapped in tests
	password func() (string, error)
}

// New creates a Provisioner. A nil sink discards events and a nil logger uses
// slog.Default().
func New(credentials store.ProvisioningStore, users store.UsersStore, devices store.DevicesStore, sink audit.Sink, logger *slog.Logger) *Provisioner {
	if sink == nil {
		sink = audit.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		credentials: credentials,
		users:       users,
		devices:     devices,
		audit:       sink,
		logger:      logger.With("component", "provision"),
		password:    GeneratePassword,
	}
}

// UserCredential returns the active credential of a user, creating it on
// first use. The default company grants are ensured on every call, so a
// revoked default comes back the next time the user asks for settings.
func (p *Provisioner) UserCredential(ctx context.Context, userID int64, actor string) (*store.Credential, error) {
	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return p.create(ctx, actor, store.Credential{
		Name:      UserCredentialName(user.Login),
		Owner:     model.UserOwner{ID: user.ID},
		CompanyID: user.CompanyID,
	}, UserGrants(user.CompanyID))
}

// CreateDevice stores a new device together with its credential and default
// grants. Either both are written or neither is.
func (p *Provisioner) CreateDevice(ctx context.Context, device *model.Device, actor string) (*store.Credential, error) {
	if device.DeviceTypeID != nil {
		dt, err := p.devices.GetDeviceType(ctx, *device.DeviceTypeID)
		if err != nil {
			return nil, err
		}
		if dt.CompanyID != device.CompanyID {
			return nil, store.ErrDeviceTypeNotFound
		}
	}

	password, err := p.password()
	if err != nil {
		return nil, err
	}

	var pending *store.Credential
	cred, err := p.credentials.CreateDeviceCredential(ctx, device, func(d *model.Device) (store.Credential, []store.Grant) {
		pending = &store.Credential{
			Name:        DeviceCredentialName(d.ID),
			Password:    password,
			IsSuperuser: d.IsSuperuser,
			Owner:       model.DeviceOwner{ID: d.ID},
			CompanyID:   d.CompanyID,
		}
		return *pending, DeviceGrants(d.CompanyID, d.ID)
	})
	if err != nil {
		if pending != nil {
			p.record(actor, pending.Name, pending.Owner, "create", err)
		}
		return nil, err
	}

	p.record(actor, cred.Name, cred.Owner, "create", nil)
	p.logger.InfoContext(ctx, "device created", "device_id", device.ID, "name", device.Name, "company_id", device.CompanyID, "credential", cred.Name)
	return cred, nil
}

// DeviceCredential returns the active credential of a device, creating it
// with the default device grants if it has none.
func (p *Provisioner) DeviceCredential(ctx context.Context, device *model.Device, actor string) (*store.Credential, error) {
	owner := model.DeviceOwner{ID: device.ID}
	cred, err := p.credentials.FindActiveByOwner(ctx, owner)
	if err == nil {
		return cred, nil
	}
	if !errors.Is(err, store.ErrCredentialNotFound) {
		return nil, err
	}

	return p.create(ctx, actor, store.Credential{
		Name:        DeviceCredentialName(device.ID),
		IsSuperuser: device.IsSuperuser,
		Owner:       owner,
		CompanyID:   device.CompanyID,
	}, DeviceGrants(device.CompanyID, device.ID))
}

// Regenerate replaces the active credential of owner with a new one that has
// the same name and grants but a fresh password.
func (p *Provisioner) Regenerate(ctx context.Context, owner model.Owner, actor string) (*store.Credential, error) {
	name, err := p.credentialName(ctx, owner)
	if err != nil {
		return nil, err
	}

	password, err := p.password()
	if err != nil {
		return nil, err
	}

	cred, err := p.credentials.RegenerateCredential(ctx, owner, name, password)
	p.record(actor, name, owner, "regenerate", err)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "credential regenerated", "credential", cred.Name, "owner", owner)
	return cred, nil
}

func (p *Provisioner) create(ctx context.Context, actor string, cred store.Credential, grants []store.Grant) (*store.Credential, error) {
	password, err := p.password()
	if err != nil {
		return nil, err
	}
	cred.Password = password

	result, created, err := p.credentials.CreateCredential(ctx, cred, grants)
	if err != nil {
		p.record(actor, cred.Name, cred.Owner, "create", err)
		return nil, err
	}
	// created is false when a concurrent request won the race
	if created {
		p.record(actor, result.Name, result.Owner, "create", nil)
		p.logger.InfoContext(ctx, "credential created", "credential", result.Name, "owner", result.Owner)
	}
	return result, nil
}

func (p *Provisioner) credentialName(ctx context.Context, owner model.Owner) (string, error) {
	switch o := owner.(type) {
	case model.UserOwner:
		user, err := p.users.GetUser(ctx, o.ID)
		if err != nil {
			return "", err
		}
		return UserCredentialName(user.Login), nil
	case model.DeviceOwner:
		if _, err := p.devices.GetDevice(ctx, o.ID); err != nil {
			return "", err
		}
		return DeviceCredentialName(o.ID), nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnknownOwner, owner)
}

func (p *Provisioner) record(actor, name string, owner model.Owner, operation string, err error) {
	event := audit.CredentialEvent{
		Actor:     actor,
		Name:      name,
		Owner:     fmt.Sprint(owner),
		Operation: operation,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	p.audit.Record(event)
}
