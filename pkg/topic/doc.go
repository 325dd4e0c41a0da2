// Package topic implements MQTT topic filter matching.
//
// Filters and topics are sequences of levels separated by "/". Two wildcard
// levels are recognised:
//
//   - "+" matches exactly one non-empty level.
//   - "#" as the last level matches zero or more trailing levels, so "a/#"
//     matches "a", "a/" and "a/b/c", and "#" alone matches every topic.
//
// Every other level is compared literally and case-sensitively. No regular
// expression is ever built from a filter, so characters such as "." or "*"
// have no special meaning.
//
// # Usage
//
//	if topic.Match("1/42/+/sdata", "1/42/temp/sdata") {
//	    // allowed
//	}
//
// Match is safe for concurrent use; it keeps no state.
package topic
