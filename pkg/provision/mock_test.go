package provision

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// MockProvisioningStore implements store.ProvisioningStore for testing using testify/mock
type MockProvisioningStore struct {
	mock.Mock

	// Built holds what CreateDeviceCredential was asked to store
	Built []BuiltCredential
}

// BuiltCredential is a credential and its grants handed to the store
type BuiltCredential struct {
	Credential store.Credential
	Grants     []store.Grant
}

func (m *MockProvisioningStore) FindActiveByOwner(ctx context.Context, owner model.Owner) (*store.Credential, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credential), args.Error(1)
}

func (m *MockProvisioningStore) CreateCredential(ctx context.Context, cred store.Credential, grants []store.Grant) (*store.Credential, bool, error) {
	args := m.Called(ctx, cred, grants)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*store.Credential), args.Bool(1), args.Error(2)
}

// CreateDeviceCredential expects Called(ctx, device). Use Run to assign the
// device ID; the credential built by newCredential is returned unless the
// expectation supplies one.
func (m *MockProvisioningStore) CreateDeviceCredential(ctx context.Context, device *model.Device, newCredential func(*model.Device) (store.Credential, []store.Grant)) (*store.Credential, error) {
	args := m.Called(ctx, device)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	cred, grants := newCredential(device)
	m.Built = append(m.Built, BuiltCredential{Credential: cred, Grants: grants})
	if args.Get(0) != nil {
		return args.Get(0).(*store.Credential), nil
	}
	return &cred, nil
}

func (m *MockProvisioningStore) RegenerateCredential(ctx context.Context, owner model.Owner, name, password string) (*store.Credential, error) {
	args := m.Called(ctx, owner, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credential), args.Error(1)
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FindUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockDevicesStore implements store.DevicesStore for testing using testify/mock
type MockDevicesStore struct {
	mock.Mock
}

func (m *MockDevicesStore) ListDevices(ctx context.Context, companyID int64) ([]model.Device, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Device), args.Error(1)
}

func (m *MockDevicesStore) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Device), args.Error(1)
}

func (m *MockDevicesStore) GetDeviceType(ctx context.Context, id int64) (*model.DeviceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeviceType), args.Error(1)
}

// recordingSink captures audit events
type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Record(e audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) credentialEvents() []audit.CredentialEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.CredentialEvent
	for _, e := range s.events {
		if c, ok := e.(audit.CredentialEvent); ok {
			out = append(out, c)
		}
	}
	return out
}
