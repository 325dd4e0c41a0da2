package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/server/store"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "permissions.yml")
	require.NoError(t, os.WriteFile(path, []byte("credentials: []\n"), 0o600))

	creds := &MockCredentialStore{}
	grants := &MockGrantStore{}
	creds.On("FindByName", mock.Anything, "user_alice").Return(&store.Credential{ID: 2}, nil)
	grants.On("EnsurePermission", mock.Anything, int64(2), mock.Anything).Return(true, nil)

	results := make(chan *Result, 10)
	w := NewWatcher(path, NewLoader(creds, grants), nil).OnLoad(func(r *Result, err error) {
		if err == nil {
			results <- r
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case r := <-results:
		assert.Zero(t, r.Granted)
	case <-time.After(5 * time.Second):
		t.Fatal("initial load did not happen")
	}

	doc := "credentials:\n  - name: user_alice\n    grant:\n      - topic: 7/#\n        action: subscribe\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	deadline := time.After(5 * time.Second)
	for granted := false; !granted; {
		select {
		case r := <-results:
			granted = r.Granted == 1
		case <-deadline:
			t.Fatal("file change was not picked up")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
