package provision

import (
	"fmt"
	"strings"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

var loginReplacer = strings.NewReplacer("@", "_", ".", "_")

// UserCredentialName returns the credential name issued for a login,
// e.g. "jane.doe@example.com" becomes "user_jane_doe_example_com".
func UserCredentialName(login string) string {
	return "user_" + loginReplacer.Replace(login)
}

// DeviceCredentialName returns the credential name issued for a device.
func DeviceCredentialName(deviceID int64) string {
	return fmt.Sprintf("device_%d", deviceID)
}

// UserGrants are the company-wide rules every user credential starts with.
func UserGrants(companyID int64) []store.Grant {
	scope := fmt.Sprintf("%d/#", companyID)
	return []store.Grant{
		{Topic: scope, Action: model.ActionSubscribe},
		{Topic: scope, Action: model.ActionPublish},
	}
}

// DeviceGrants are the rules a device credential starts with: publish sensor
// data and subscribe to actuator commands under its own prefix.
func DeviceGrants(companyID, deviceID int64) []store.Grant {
	prefix := fmt.Sprintf("%d/%d/+", companyID, deviceID)
	return []store.Grant{
		{Topic: prefix + "/sdata", Action: model.ActionPublish},
		{Topic: prefix + "/acdata", Action: model.ActionSubscribe},
	}
}
