// Package authenticator decides whether a broker connect attempt is allowed.
//
// The Authenticator looks the presented username and password up in a
// store.CredentialStore and returns a verdict.Verdict:
//
//   - Ignore when the username or password is empty, or on an internal fault
//   - Deny when no active credential matches
//   - Allow, carrying is_superuser and resource_type, otherwise
//
// Errors and panics from the store never escape Authenticate; they become
// Ignore("internal error") and a FaultEvent on the audit sink.
//
// # Usage
//
//	authn := authenticator.New(credentials, auditor, slog.Default())
//	v := authn.Authenticate(ctx, "device_42", "secret")
//	if v.Allowed() {
//	    // connect
//	}
package authenticator
