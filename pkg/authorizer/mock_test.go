package authorizer

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/model"
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

// MockPermissionStore implements store.PermissionStore for testing using testify/mock
type MockPermissionStore struct {
	mock.Mock
}

func (m *MockPermissionStore) FindActiveByCredential(ctx context.Context, credentialID int64, action model.Action) ([]store.Permission, error) {
	args := m.Called(ctx, credentialID, action)
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

func (s *recordingSink) faults() []audit.FaultEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.FaultEvent
	for _, e := range s.events {
		if f, ok := e.(audit.FaultEvent); ok {
			out = append(out, f)
		}
	}
	return out
}
