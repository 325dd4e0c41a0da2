package endpoints

import (
	"errors"
	"net/http"

	"github.com/iotbase/iot-auth/pkg/identity"
	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// DevicesResponse lists the devices of the session company
type DevicesResponse struct {
	Devices []model.Device `json:"devices"`
}

// CreateDeviceRequest is the body of POST /iot/devices
type CreateDeviceRequest struct {
	Name         string `json:"name"`
	UID          string `json:"device_uid"`
	DeviceTypeID *int64 `json:"device_type_id"`
	IsSuperuser  bool   `json:"is_superuser"`
}

// CreateDeviceResponse returns the device with its MQTT credential
type CreateDeviceResponse struct {
	Device      model.Device       `json:"device"`
	Credentials CredentialResponse `json:"credentials"`
}

// RegisterDevicesEndpoints registers the session-protected device endpoints
func RegisterDevicesEndpoints(s *server.Server) {
	devicesStore := s.DevicesStore
	provisioner := s.Provisioner
	session := s.SessionMiddleware.Middleware

	s.Router.Handle("/iot/devices", session(handleListDevices(devicesStore))).Methods("GET")
	s.Router.Handle("/iot/devices", session(handleCreateDevice(provisioner))).Methods("POST")
}

func handleListDevices(devicesStore store.DevicesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		devices, err := devicesStore.ListDevices(r.Context(), id.CompanyID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list devices")
			return
		}
		if devices == nil {
			devices = []model.Device{}
		}
		respondWithJSON(w, http.StatusOK, DevicesResponse{Devices: devices})
	}
}

func handleCreateDevice(provisioner *provision.Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authorization missing")
			return
		}

		var req CreateDeviceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, errMalformedBody)
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		device := &model.Device{
			Name:         req.Name,
			UID:          req.UID,
			DeviceTypeID: req.DeviceTypeID,
			IsSuperuser:  req.IsSuperuser,
			CompanyID:    id.CompanyID,
		}
		cred, err := provisioner.CreateDevice(r.Context(), device, id.Login)
		switch {
		case errors.Is(err, store.ErrDeviceTypeNotFound):
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "failed to create device")
			return
		}

		respondWithJSON(w, http.StatusCreated, CreateDeviceResponse{
			Device:      *device,
			Credentials: credentialResponse(cred),
		})
	}
}
