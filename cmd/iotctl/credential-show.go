package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// credentialShowCmd represents the credential show command
var credentialShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active credential of a user or device",
	Long: `Show the active MQTT credential of a user or device.

A user or device without a credential gets one provisioned with the default
grants, exactly as the /iot/app and /iot/devices endpoints do.

Example:
  iotctl credential show --user alice@example.com
  iotctl credential show --device 42`,
	Run: func(cmd *cobra.Command, args []string) {
		login, deviceID, err := ownerFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		cred, err := showCredential(cmd.Context(), login, deviceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show credential: %v\n", err)
			os.Exit(1)
		}
		printCredential(cred)
	},
}

func init() {
	credentialCmd.AddCommand(credentialShowCmd)
	addOwnerFlags(credentialShowCmd)
}

func showCredential(ctx context.Context, login string, deviceID int64) (*store.Credential, error) {
	env, err := newCredentialEnv()
	if err != nil {
		return nil, err
	}
	defer env.close()

	owner, err := env.resolveOwner(ctx, login, deviceID)
	if err != nil {
		return nil, err
	}

	switch o := owner.(type) {
	case model.UserOwner:
		return env.provisioner.UserCredential(ctx, o.ID, cliActor())
	case model.DeviceOwner:
		device, err := env.devices.GetDevice(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		return env.provisioner.DeviceCredential(ctx, device, cliActor())
	}
	return nil, fmt.Errorf("unsupported owner %v", owner)
}
