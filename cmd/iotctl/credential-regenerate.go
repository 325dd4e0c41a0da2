package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/server/store"
)

// credentialRegenerateCmd represents the credential regenerate command
var credentialRegenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Replace the password of a user or device credential",
	Long: `Deactivate the active credential of a user or device and issue a
replacement with the same username and grants but a new password.

Clients still connected with the old password keep their session until
they reconnect.

Example:
  iotctl credential regenerate --user alice@example.com
  iotctl credential regenerate --device 42`,
	Run: func(cmd *cobra.Command, args []string) {
		login, deviceID, err := ownerFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		cred, err := regenerateCredential(cmd.Context(), login, deviceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to regenerate credential: %v\n", err)
			os.Exit(1)
		}
		printCredential(cred)
	},
}

func init() {
	credentialCmd.AddCommand(credentialRegenerateCmd)
	addOwnerFlags(credentialRegenerateCmd)
}

func regenerateCredential(ctx context.Context, login string, deviceID int64) (*store.Credential, error) {
	env, err := newCredentialEnv()
	if err != nil {
		return nil, err
	}
	defer env.close()

	owner, err := env.resolveOwner(ctx, login, deviceID)
	if err != nil {
		return nil, err
	}
	return env.provisioner.Regenerate(ctx, owner, cliActor())
}
