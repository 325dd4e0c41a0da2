// Package config provides configuration management for the IoT auth server.
//
// This package handles loading and validating server configuration from a
// YAML file and environment variables, tracking where every value came from.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $IOTAUTH_CONFIG_PATH/iotauth.yml (default /etc/iotauth/config)
//   - IOTAUTH_* environment variables
//
// # Key Configuration Options
//
//   - IOTAUTH_BROKER_URL / IOTAUTH_BROKER_HOST / IOTAUTH_BROKER_PORT: broker address
//   - IOTAUTH_HOOK_TOKEN: shared secret the broker puts in the hook path
//   - IOTAUTH_SESSION_SECRET: HS256 key for session tokens
//   - IOTAUTH_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
