package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialOwner(t *testing.T) {
	t.Run("user owner round trips", func(t *testing.T) {
		c := NewCredential("user_alice", "secret", UserOwner{ID: 7}, 1, false)

		assert.Equal(t, ResourceTypeUser, c.ResourceType)
		assert.Nil(t, c.DeviceID)
		require.NotNil(t, c.UserID)

		owner, err := c.Owner()
		require.NoError(t, err)
		assert.Equal(t, UserOwner{ID: 7}, owner)
	})

	t.Run("device owner round trips", func(t *testing.T) {
		c := NewCredential("device_42", "secret", DeviceOwner{ID: 42}, 1, false)

		owner, err := c.Owner()
		require.NoError(t, err)
		assert.Equal(t, DeviceOwner{ID: 42}, owner)
		assert.Equal(t, ResourceTypeDevice, owner.ResourceType())
	})

	t.Run("SetOwner clears the previous owner column", func(t *testing.T) {
		c := NewCredential("x", "y", UserOwner{ID: 1}, 1, false)
		c.SetOwner(DeviceOwner{ID: 2})

		assert.Nil(t, c.UserID)
		owner, err := c.Owner()
		require.NoError(t, err)
		assert.Equal(t, DeviceOwner{ID: 2}, owner)
	})

	t.Run("both owners set is rejected", func(t *testing.T) {
		u, d := int64(1), int64(2)
		c := Credential{ID: 3, ResourceType: ResourceTypeUser, UserID: &u, DeviceID: &d}

		_, err := c.Owner()
		assert.ErrorIs(t, err, ErrInvalidOwner)
	})

	t.Run("no owner is rejected", func(t *testing.T) {
		c := Credential{ID: 3, ResourceType: ResourceTypeDevice}

		_, err := c.Owner()
		assert.ErrorIs(t, err, ErrInvalidOwner)
	})

	t.Run("resource type disagreeing with column is rejected", func(t *testing.T) {
		u := int64(1)
		c := Credential{ID: 3, ResourceType: ResourceTypeDevice, UserID: &u}

		_, err := c.Owner()
		assert.ErrorIs(t, err, ErrInvalidOwner)
	})
}

func TestAction(t *testing.T) {
	t.Run("all covers every request", func(t *testing.T) {
		assert.True(t, ActionAll.Covers(ActionPublish))
		assert.True(t, ActionAll.Covers(ActionSubscribe))
		assert.True(t, ActionPublish.Covers(ActionPublish))
		assert.False(t, ActionPublish.Covers(ActionSubscribe))
		assert.False(t, ActionSubscribe.Covers(ActionPublish))
	})

	t.Run("request actions are case sensitive", func(t *testing.T) {
		for _, s := range []string{"publish", "subscribe"} {
			_, ok := ParseRequestAction(s)
			assert.True(t, ok, s)
		}
		for _, s := range []string{"", "all", "delete", "PUBLISH", "Subscribe"} {
			_, ok := ParseRequestAction(s)
			assert.False(t, ok, s)
		}
	})

	t.Run("string forms", func(t *testing.T) {
		assert.Equal(t, "publish", ActionPublish.String())
		assert.Equal(t, "all", ActionAll.String())
		assert.Equal(t, "device", ResourceTypeDevice.String())

		a, err := ActionString("subscribe")
		require.NoError(t, err)
		assert.Equal(t, ActionSubscribe, a)
	})
}
