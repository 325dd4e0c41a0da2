// Command iotctl runs the authentication and ACL backend of an EMQX-style
// MQTT broker and manages its MQTT credentials.
//
// The broker calls the server's HTTP hooks on every connect, publish and
// subscribe. Each call is answered with allow, deny or ignore based on the
// stored credentials and topic permissions.
//
// # Quick Start
//
//	# Run database migrations
//	iotctl db migrate
//
//	# Start the server
//	iotctl server
//
//	# Create a device and print its MQTT credential
//	iotctl device create --company 7 thermostat
//
//	# Grant extra topics from a permission file
//	iotctl permission load permissions.yml
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: optional PostgreSQL database for audit messages
//   - IOTAUTH_CONFIG_PATH: directory holding iotauth.yml
//   - IOTAUTH_*: overrides for every iotauth.yml key, e.g. IOTAUTH_HOOK_TOKEN
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
package main
