// Package store provides storage abstractions for the IoT auth server.
//
// This package defines interfaces for database operations, allowing the
// evaluators and endpoints to be decoupled from the specific database
// implementation. The gorm subpackage holds the PostgreSQL implementations.
//
// # Available Stores
//
//   - CredentialStore: active credential lookup for authn and ACL checks
//   - PermissionStore: active permission lookup by credential and action
//   - ProvisioningStore: credential creation and regeneration
//   - GrantStore: idempotent permission writes and revocation
//   - DevicesStore: device and device type records
//   - UsersStore: application user lookup
//   - HealthStore: database connectivity
//
// # Usage
//
//	creds := gorm.NewCredentialsStore(db)
//	cred, err := creds.FindByName(ctx, "device_42")
//	if err != nil {
//	    if errors.Is(err, store.ErrCredentialNotFound) {
//	        // Handle not found
//	    }
//	}
package store
