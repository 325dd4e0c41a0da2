package policy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

func mustParse(t *testing.T, input string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	return doc
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	creds := &MockCredentialStore{}
	grants := &MockGrantStore{}
	sink := &recordingSink{}

	creds.On("FindByName", ctx, "device_42").Return(&store.Credential{ID: 1}, nil)
	creds.On("FindByName", ctx, "user_alice").Return(&store.Credential{ID: 2}, nil)

	grants.On("EnsurePermission", ctx, int64(1), store.Grant{Topic: "7/42/+/sdata", Action: model.ActionPublish}).Return(true, nil)
	grants.On("EnsurePermission", ctx, int64(1), store.Grant{Topic: "7/42/+/acdata", Action: model.ActionSubscribe}).Return(false, nil)
	grants.On("RevokePermission", ctx, int64(1), store.Grant{Topic: "7/#", Action: model.ActionAll}).Return(true, nil)
	grants.On("EnsurePermission", ctx, int64(2), store.Grant{Topic: "7/#", Action: model.ActionSubscribe}).Return(true, nil)

	result, err := NewLoader(creds, grants).WithActor("admin").WithAudit(sink).Load(ctx, mustParse(t, sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Granted)
	assert.Equal(t, 1, result.Revoked)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, map[string]int{"device_42": 2, "user_alice": 1}, result.PerName)
	assert.Equal(t, 4, sink.len())

	creds.AssertExpectations(t)
	grants.AssertExpectations(t)
}

func TestLoadUnknownCredentialWritesNothing(t *testing.T) {
	ctx := context.Background()
	creds := &MockCredentialStore{}
	grants := &MockGrantStore{}

	creds.On("FindByName", ctx, "device_42").Return(&store.Credential{ID: 1}, nil)
	creds.On("FindByName", ctx, "user_alice").Return(nil, store.ErrCredentialNotFound)

	_, err := NewLoader(creds, grants).Load(ctx, mustParse(t, sampleDocument))
	assert.ErrorIs(t, err, store.ErrCredentialNotFound)
	assert.Contains(t, err.Error(), "user_alice")

	grants.AssertNotCalled(t, "EnsurePermission", mock.Anything, mock.Anything, mock.Anything)
	grants.AssertNotCalled(t, "RevokePermission", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadDryRun(t *testing.T) {
	ctx := context.Background()
	creds := &MockCredentialStore{}
	grants := &MockGrantStore{}

	creds.On("FindByName", ctx, mock.Anything).Return(&store.Credential{ID: 1}, nil)

	result, err := NewLoader(creds, grants).WithDryRun(true).Load(ctx, mustParse(t, sampleDocument))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Zero(t, result.Granted)
	grants.AssertNotCalled(t, "EnsurePermission", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadStoreFailure(t *testing.T) {
	ctx := context.Background()
	creds := &MockCredentialStore{}
	grants := &MockGrantStore{}

	creds.On("FindByName", ctx, mock.Anything).Return(&store.Credential{ID: 1}, nil)
	grants.On("EnsurePermission", ctx, int64(1), mock.Anything).Return(false, errors.New("db down"))

	_, err := NewLoader(creds, grants).Load(ctx, mustParse(t, sampleDocument))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device_42: grant publish on 7/42/+/sdata: db down")
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	doc := &Document{Credentials: []Entry{{Name: "a", Grant: []Rule{{Topic: "", Action: "publish"}}}}}

	_, err := NewLoader(&MockCredentialStore{}, &MockGrantStore{}).Load(context.Background(), doc)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestLoadPartialFailureKeepsEarlierWrites(t *testing.T) {
	ctx := context.Background()
	creds := &MockCredentialStore{}
	grants := &MockGrantStore{}

	creds.On("FindByName", ctx, "device_42").Return(&store.Credential{ID: 1}, nil)
	creds.On("FindByName", ctx, "user_alice").Return(&store.Credential{ID: 2}, nil)
	grants.On("EnsurePermission", ctx, int64(1), mock.Anything).Return(true, nil)
	grants.On("RevokePermission", ctx, int64(1), mock.Anything).Return(true, nil)
	grants.On("EnsurePermission", ctx, int64(2), mock.Anything).Return(false, errors.New("db down"))

	result, err := NewLoader(creds, grants).Load(ctx, mustParse(t, sampleDocument))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_alice")
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Granted)
	assert.Equal(t, 1, result.Revoked)
}

func TestToGrants(t *testing.T) {
	grants, err := toGrants([]Rule{
		{Topic: "7/#", Action: "subscribe"},
		{Topic: "7/42/status", Action: "publish"},
	})
	require.NoError(t, err)
	assert.Equal(t, []store.Grant{
		{Topic: "7/#", Action: model.ActionSubscribe},
		{Topic: "7/42/status", Action: model.ActionPublish},
	}, grants)

	_, err = toGrants([]Rule{{Topic: "7/#", Action: "read"}})
	assert.ErrorContains(t, err, `invalid action "read"`)

	_, err = toGrants([]Rule{{Topic: "7/#/x", Action: "publish"}})
	assert.Error(t, err)
}
