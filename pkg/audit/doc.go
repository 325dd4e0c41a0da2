// Package audit provides audit logging for authentication and authorization
// decisions.
//
// Events are written as RFC5424 syslog lines and, when an audit database is
// configured, persisted to its messages table.
//
// # Event Types
//
//   - AuthenticateEvent: broker connect decisions
//   - ACLCheckEvent: publish/subscribe decisions
//   - FaultEvent: internal faults converted to an ignore verdict
//   - CredentialEvent: credential creation and regeneration
//   - PermissionEvent: permission grants and revocations
//
// # Usage
//
//	auditor := audit.NewAuditor(audit.NewLogger(), store)
//	auditor.Record(audit.ACLCheckEvent{Username: "device_42", Topic: "1/42/t/sdata", Action: "publish", Result: "allow"})
//
// Components receive a Sink rather than reaching for a package global, so
// tests can capture events with their own Sink.
package audit
