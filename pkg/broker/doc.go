// Package broker checks that the MQTT broker is reachable and accepts the
// configured probe credential.
package broker
