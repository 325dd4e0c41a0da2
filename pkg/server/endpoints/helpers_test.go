package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/authenticator"
	"github.com/iotbase/iot-auth/pkg/authorizer"
	"github.com/iotbase/iot-auth/pkg/config"
	"github.com/iotbase/iot-auth/pkg/identity"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server"
)

const testSessionSecret = "test-session-secret"

type testServer struct {
	*server.Server
	credentials *MockCredentialStore
	permissions *MockPermissionStore
	devices     *MockDevicesStore
	users       *MockUsersStore
	health      *MockHealthStore
}

func newTestServer(t *testing.T, configure func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.SessionSecret = testSessionSecret
	if configure != nil {
		configure(cfg)
	}

	ts := &testServer{
		credentials: &MockCredentialStore{},
		permissions: &MockPermissionStore{},
		devices:     &MockDevicesStore{},
		users:       &MockUsersStore{},
		health:      &MockHealthStore{},
	}
	ts.Server = server.NewServer(server.Options{
		Config:        cfg,
		Version:       "test",
		Authenticator: authenticator.New(ts.credentials, nil, nil),
		Authorizer:    authorizer.New(ts.credentials, ts.permissions, nil, nil),
		Provisioner:   provision.New(ts.credentials, ts.users, ts.devices, nil, nil),
		DevicesStore:  ts.devices,
		HealthStore:   ts.health,
		AccessLog:     io.Discard,
	}, "127.0.0.1", "0")
	RegisterAll(ts.Server)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.9:40000"
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func sessionHeader(t *testing.T, user model.User) []string {
	t.Helper()
	token, err := identity.Issue([]byte(testSessionSecret), user, time.Hour)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

