// Package server provides the HTTP server the MQTT broker calls for
// authentication and ACL decisions.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging.
//
// # Server Setup
//
//	srv := server.NewServer(server.Options{...}, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - POST /iot/auth/{token} - broker connect hook
//   - POST /iot/acl/{token} - broker publish/subscribe hook
//   - GET, POST /iot/devices - company devices (session)
//   - GET /iot/app - broker URL and MQTT credential of the session user
//   - POST /iot/credentials/regenerate - rotate the session user's credential
//   - GET / and GET /status - health
package server
