package policy

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// MockCredentialStore implements store.CredentialStore for testing using testify/mock
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByNamePassword(ctx context.Context, name, password string) (*store.Credential, error) {
	args := m.Called(ctx, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credential), args.Error(1)
}

func (m *MockCredentialStore) FindByName(ctx context.Context, name string) (*store.Credential, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credential), args.Error(1)
}

// MockGrantStore implements store.GrantStore for testing using testify/mock
type MockGrantStore struct {
	mock.Mock
}

func (m *MockGrantStore) EnsurePermission(ctx context.Context, credentialID int64, grant store.Grant) (bool, error) {
	args := m.Called(ctx, credentialID, grant)
	return args.Bool(0), args.Error(1)
}

func (m *MockGrantStore) RevokePermission(ctx context.Context, credentialID int64, grant store.Grant) (bool, error) {
	args := m.Called(ctx, credentialID, grant)
	return args.Bool(0), args.Error(1)
}

func (m *MockGrantStore) ListPermissions(ctx context.Context, credentialID int64) ([]store.Permission, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Permission), args.Error(1)
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

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
