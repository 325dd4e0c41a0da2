package authenticator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
	"github.com/iotbase/iot-auth/pkg/verdict"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty username or password is ignored without a lookup", func(t *testing.T) {
		creds := &MockCredentialStore{}
		sink := &recordingSink{}
		a := New(creds, sink, nil)

		for _, in := range [][2]string{{"", "pw"}, {"device_42", ""}, {"", ""}} {
			v := a.Authenticate(ctx, in[0], in[1])
			assert.Equal(t, verdict.ResultIgnore, v.Result)
			assert.Equal(t, verdict.ReasonCredentialsRequired, v.Reason)
		}
		creds.AssertNotCalled(t, "FindByNamePassword", mock.Anything, mock.Anything, mock.Anything)
		assert.Len(t, sink.events, 3)
	})

	t.Run("unknown credential is denied", func(t *testing.T) {
		creds := &MockCredentialStore{}
		creds.On("FindByNamePassword", ctx, "ghost", "pw").Return(nil, store.ErrCredentialNotFound)
		a := New(creds, nil, nil)

		v := a.Authenticate(ctx, "ghost", "pw")
		assert.Equal(t, verdict.Deny(verdict.ReasonInvalidCredentials), v)
		creds.AssertExpectations(t)
	})

	t.Run("device credential is allowed with resource type", func(t *testing.T) {
		creds := &MockCredentialStore{}
		creds.On("FindByNamePassword", ctx, "device_42", "pw").Return(&store.Credential{
			ID:    3,
			Name:  "device_42",
			Owner: model.DeviceOwner{ID: 42},
		}, nil)
		sink := &recordingSink{}
		a := New(creds, sink, nil)

		v := a.Authenticate(ctx, "device_42", "pw")
		assert.True(t, v.Allowed())
		assert.False(t, v.IsSuperuser)
		require.NotNil(t, v.ResourceType)
		assert.Equal(t, model.ResourceTypeDevice, *v.ResourceType)

		require.Len(t, sink.events, 1)
		event := sink.events[0].(audit.AuthenticateEvent)
		assert.Equal(t, "allow", event.Result)
		assert.Equal(t, "device", event.ResourceType)
	})

	t.Run("superuser flag is reported", func(t *testing.T) {
		creds := &MockCredentialStore{}
		creds.On("FindByNamePassword", ctx, "admin", "pw").Return(&store.Credential{
			Name:        "admin",
			IsSuperuser: true,
			Owner:       model.UserOwner{ID: 1},
		}, nil)
		a := New(creds, nil, nil)

		v := a.Authenticate(ctx, "admin", "pw")
		assert.True(t, v.Allowed())
		assert.True(t, v.IsSuperuser)
		assert.Equal(t, model.ResourceTypeUser, *v.ResourceType)
	})

	t.Run("store error becomes internal error and is audited", func(t *testing.T) {
		creds := &MockCredentialStore{}
		creds.On("FindByNamePassword", ctx, "device_42", "pw").Return(nil, errors.New("connection refused"))
		sink := &recordingSink{}
		a := New(creds, sink, nil)

		v := a.Authenticate(ctx, "device_42", "pw")
		assert.Equal(t, verdict.Ignore(verdict.ReasonInternalError), v)

		faults := sink.faults()
		require.Len(t, faults, 1)
		assert.Equal(t, audit.CategoryAuthentication, faults[0].Category)
		assert.Equal(t, "device_42", faults[0].Username)
		assert.Contains(t, faults[0].Err, "connection refused")
	})

	t.Run("store panic becomes internal error", func(t *testing.T) {
		creds := &MockCredentialStore{}
		creds.On("FindByNamePassword", ctx, "device_42", "pw").Run(func(mock.Arguments) {
			panic("nil map")
		})
		sink := &recordingSink{}
		a := New(creds, sink, nil)

		v := a.Authenticate(ctx, "device_42", "pw")
		assert.Equal(t, verdict.Ignore(verdict.ReasonInternalError), v)
		assert.Len(t, sink.faults(), 1)
	})

	t.Run("client IP from context is audited", func(t *testing.T) {
		creds := &MockCredentialStore{}
		ipCtx := audit.WithClientIP(ctx, "10.0.0.5")
		creds.On("FindByNamePassword", ipCtx, "ghost", "pw").Return(nil, store.ErrCredentialNotFound)
		sink := &recordingSink{}
		a := New(creds, sink, nil)

		a.Authenticate(ipCtx, "ghost", "pw")
		require.Len(t, sink.events, 1)
		assert.Equal(t, "10.0.0.5", sink.events[0].(audit.AuthenticateEvent).ClientIP)
	})
}
