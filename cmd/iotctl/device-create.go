package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/model"
)

// deviceCreateCmd represents the device create command
var deviceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a device and provision its credential",
	Long: `Create a device and provision its MQTT credential.

The credential is named device_<id> and receives the default device grants:
publish on <company>/<device>/+/sdata and subscribe on
<company>/<device>/+/acdata.

Example:
  iotctl device create --company 1 boiler-7
  iotctl device create --company 1 --type 3 --uid 00:1B:44:11:3A:B7 boiler-7`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		companyID, _ := cmd.Flags().GetInt64("company")
		typeID, _ := cmd.Flags().GetInt64("type")
		uid, _ := cmd.Flags().GetString("uid")
		superuser, _ := cmd.Flags().GetBool("superuser")

		device := &model.Device{
			Name:        args[0],
			UID:         uid,
			IsSuperuser: superuser,
			CompanyID:   companyID,
		}
		if typeID != 0 {
			device.DeviceTypeID = &typeID
		}

		output, err := createDevice(cmd.Context(), device)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create device: %v\n", err)
			os.Exit(1)
		}

		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(data))
	},
}

func init() {
	deviceCmd.AddCommand(deviceCreateCmd)

	deviceCreateCmd.Flags().Int64("company", 0, "owning company ID")
	deviceCreateCmd.Flags().Int64("type", 0, "device type ID")
	deviceCreateCmd.Flags().String("uid", "", "hardware identifier of the device")
	deviceCreateCmd.Flags().Bool("superuser", false, "let the device publish and subscribe on every topic")
	_ = deviceCreateCmd.MarkFlagRequired("company")
}

type deviceCreateOutput struct {
	Device      *model.Device    `json:"device"`
	Credentials credentialOutput `json:"credentials"`
}

func createDevice(ctx context.Context, device *model.Device) (*deviceCreateOutput, error) {
	env, err := newCredentialEnv()
	if err != nil {
		return nil, err
	}
	defer env.close()

	cred, err := env.provisioner.CreateDevice(ctx, device, cliActor())
	if err != nil {
		return nil, err
	}
	return &deviceCreateOutput{Device: device, Credentials: newCredentialOutput(cred)}, nil
}
