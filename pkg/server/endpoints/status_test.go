package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/broker"
)

func TestStatus(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.health.On("CheckConnectivity", mock.Anything).Return(nil)

		for _, path := range []string{"/", "/status"} {
			rec := ts.do(t, "GET", path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"status":"ok","version":"test","database":"ok"}`, rec.Body.String())
		}
	})

	t.Run("database down", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.health.On("CheckConnectivity", mock.Anything).Return(errors.New("connection refused"))

		rec := ts.do(t, "GET", "/status", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp StatusResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "error", resp.Database)
	})
}

func TestHandleStatusBroker(t *testing.T) {
	health := &MockHealthStore{}
	health.On("CheckConnectivity", mock.Anything).Return(nil)

	t.Run("reachable", func(t *testing.T) {
		b := &MockBroker{}
		b.On("Check", mock.Anything).Return(&broker.Status{URL: "ws://localhost:8083/mqtt", Latency: 2 * time.Millisecond}, nil)

		w := httptest.NewRecorder()
		handleStatus("test", health, b)(w, httptest.NewRequest("GET", "/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp StatusResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "ok", resp.Status)
		require.NotNil(t, resp.Broker)
		assert.Equal(t, "ok", resp.Broker.Status)
		assert.InDelta(t, 2.0, resp.Broker.LatencyMS, 0.001)
	})

	t.Run("unreachable degrades", func(t *testing.T) {
		b := &MockBroker{}
		b.On("Check", mock.Anything).Return(nil, broker.ErrUnreachable)

		w := httptest.NewRecorder()
		handleStatus("test", health, b)(w, httptest.NewRequest("GET", "/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp StatusResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "error", resp.Broker.Status)
	})
}
