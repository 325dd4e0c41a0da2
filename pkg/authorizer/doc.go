// Package authorizer decides whether a credential may publish or subscribe to
// a topic.
//
// Authorize runs a fixed, short-circuiting sequence:
//
//  1. validate the request (username, topic, action)
//  2. look the credential up by name
//  3. allow superusers outright
//  4. load the active permissions for the requested action or "all"
//  5. allow on the first permission whose topic filter matches
//  6. deny otherwise
//
// The model is allow-only; there are no deny rules. Store errors and panics
// in steps 2 to 6 produce Ignore("internal error") and an audit FaultEvent.
package authorizer
