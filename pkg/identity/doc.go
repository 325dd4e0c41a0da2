// Package identity carries the authenticated application user of a request.
//
// Session tokens are HS256 JWTs signed with the configured session secret.
// The subject is the user's login; the uid and company_id claims scope the
// device and credential endpoints.
//
// # Basic Usage
//
//	token, err := identity.Issue(secret, user, time.Hour)
//
//	id, err := identity.ParseToken(secret, token)
//	ctx = identity.Set(ctx, id.WithRemoteIP(clientIP))
//
//	id, ok := identity.Get(ctx)
package identity
