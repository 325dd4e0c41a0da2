package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/provision"
	"github.com/iotbase/iot-auth/pkg/server/store"
	gormstore "github.com/iotbase/iot-auth/pkg/server/store/gorm"
)

var errOwnerFlags = errors.New("exactly one of --user or --device is required")

// credentialCmd represents the credential command
var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage MQTT credentials",
	Long:  `Show and regenerate the MQTT credentials of users and devices.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'credential' requires a subcommand (show, regenerate)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(credentialCmd)
}

// credentialOutput is the JSON printed by the credential subcommands
type credentialOutput struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	IsSuperuser  bool   `json:"is_superuser"`
	ResourceType string `json:"resource_type"`
	Owner        string `json:"owner"`
}

func newCredentialOutput(cred *store.Credential) credentialOutput {
	return credentialOutput{
		Username:     cred.Name,
		Password:     cred.Password,
		IsSuperuser:  cred.IsSuperuser,
		ResourceType: cred.ResourceType().String(),
		Owner:        fmt.Sprint(cred.Owner),
	}
}

func printCredential(cred *store.Credential) {
	output, _ := json.MarshalIndent(newCredentialOutput(cred), "", "  ")
	fmt.Println(string(output))
}

func addOwnerFlags(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "login of the owning user")
	cmd.Flags().Int64("device", 0, "ID of the owning device")
}

// ownerFlags reads --user and --device
func ownerFlags(cmd *cobra.Command) (string, int64, error) {
	login, _ := cmd.Flags().GetString("user")
	deviceID, _ := cmd.Flags().GetInt64("device")
	if (login == "") == (deviceID == 0) {
		return "", 0, errOwnerFlags
	}
	return login, deviceID, nil
}

// credentialEnv holds what the credential commands need
type credentialEnv struct {
	provisioner *provision.Provisioner
	users       store.UsersStore
	devices     store.DevicesStore
	close       func()
}

func newCredentialEnv() (*credentialEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	database, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}
	sink, closeAudit, err := newAuditor(cfg)
	if err != nil {
		return nil, err
	}

	users := gormstore.NewUsersStore(database)
	devices := gormstore.NewDevicesStore(database)
	return &credentialEnv{
		provisioner: provision.New(gormstore.NewCredentialsStore(database), users, devices, sink, newLogger(cfg)),
		users:       users,
		devices:     devices,
		close:       closeAudit,
	}, nil
}

// resolveOwner turns a login or device ID into a credential owner
func (e *credentialEnv) resolveOwner(ctx context.Context, login string, deviceID int64) (model.Owner, error) {
	if login != "" {
		user, err := e.users.FindUserByLogin(ctx, login)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", login, err)
		}
		return model.UserOwner{ID: user.ID}, nil
	}
	if _, err := e.devices.GetDevice(ctx, deviceID); err != nil {
		return nil, fmt.Errorf("device %d: %w", deviceID, err)
	}
	return model.DeviceOwner{ID: deviceID}, nil
}
