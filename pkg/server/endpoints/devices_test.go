package endpoints

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

var alice = model.User{ID: 3, Login: "alice@example.com", CompanyID: 7}

func TestListDevices(t *testing.T) {
	t.Run("lists devices of the session company", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.devices.On("ListDevices", mock.Anything, int64(7)).Return([]model.Device{
			{ID: 42, Name: "thermo", CompanyID: 7},
		}, nil)

		rec := ts.do(t, "GET", "/iot/devices", nil, sessionHeader(t, alice)...)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp DevicesResponse
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Devices, 1)
		assert.Equal(t, "thermo", resp.Devices[0].Name)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.devices.On("ListDevices", mock.Anything, int64(7)).Return(nil, nil)

		rec := ts.do(t, "GET", "/iot/devices", nil, sessionHeader(t, alice)...)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"devices":[]}`, rec.Body.String())
	})

	t.Run("requires a session", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(t, "GET", "/iot/devices", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		ts.devices.AssertNotCalled(t, "ListDevices", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.devices.On("ListDevices", mock.Anything, int64(7)).Return(nil, errors.New("db down"))

		rec := ts.do(t, "GET", "/iot/devices", nil, sessionHeader(t, alice)...)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCreateDevice(t *testing.T) {
	t.Run("creates device with credential", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.credentials.On("CreateDeviceCredential", mock.Anything, mock.MatchedBy(func(d *model.Device) bool {
			return d.Name == "thermo" && d.CompanyID == 7
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Device).ID = 42
		}).Return(nil, nil)

		rec := ts.do(t, "POST", "/iot/devices", CreateDeviceRequest{Name: "thermo"}, sessionHeader(t, alice)...)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp CreateDeviceResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, int64(42), resp.Device.ID)
		assert.Equal(t, "device_42", resp.Credentials.Username)
		assert.Len(t, resp.Credentials.Password, 16)
		require.Len(t, ts.credentials.Built, 1)
		assert.Equal(t, provision.DeviceGrants(7, 42), ts.credentials.Built[0].Grants)
	})

	t.Run("name is required", func(t *testing.T) {
		ts := newTestServer(t, nil)
		rec := ts.do(t, "POST", "/iot/devices", CreateDeviceRequest{}, sessionHeader(t, alice)...)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown device type", func(t *testing.T) {
		ts := newTestServer(t, nil)
		typeID := int64(99)
		ts.devices.On("GetDeviceType", mock.Anything, int64(99)).Return(nil, store.ErrDeviceTypeNotFound)

		rec := ts.do(t, "POST", "/iot/devices", CreateDeviceRequest{Name: "x", DeviceTypeID: &typeID}, sessionHeader(t, alice)...)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
