// Package model defines the database models for the IoT auth backend.
//
// This package contains GORM models that map to the PostgreSQL schema in
// db/migrations. Domain values handed to evaluators live in the store package;
// the models here are the rows.
//
// # Core Models
//
//   - Credential: MQTT login owned by exactly one user or one device
//   - Permission: topic filter rule attached to a credential
//   - Device: an IoT device, provisioned with its own credential
//   - DeviceType: a catalogue entry devices point at
//   - User: the application user a credential can be issued for
//
// # Database Schema
//
//   - iot_credentials: MQTT logins (CHECK: exactly one owner column set)
//   - iot_permissions: topic rules (partial unique index on active rows)
//   - iot_devices: devices
//   - iot_device_types: device types
//   - users: application users
package model
