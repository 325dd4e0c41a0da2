// Package provision issues MQTT credentials for application users and
// devices.
//
// User credentials are created lazily the first time a user asks for them.
// Device credentials are created together with the device. Both come with a
// default set of topic grants scoped to the owner's company.
package provision
