package endpoints

import "github.com/iotbase/iot-auth/pkg/server"

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterHookEndpoints(srv)
	RegisterDevicesEndpoints(srv)
	RegisterAppEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
