package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/audit"
	"github.com/iotbase/iot-auth/pkg/policy"
	gormstore "github.com/iotbase/iot-auth/pkg/server/store/gorm"
)

// permissionCmd represents the permission command
var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Manage topic permissions",
	Long: `Manage the topic permissions attached to MQTT credentials.

Permission files are YAML documents listing grants and revocations per
credential:

  credentials:
    - name: device_42
      grant:
        - topic: 1/42/+/cmd
          action: subscribe
      revoke:
        - topic: 1/42/#
          action: all`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'permission' requires a subcommand (load, watch, revoke, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(permissionCmd)
}

// permissionEnv holds what the permission commands need
type permissionEnv struct {
	credentials *gormstore.CredentialsStore
	permissions *gormstore.PermissionsStore
	sink        audit.Sink
	close       func()
}

func newPermissionEnv() (*permissionEnv, error) {
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
	return &permissionEnv{
		credentials: gormstore.NewCredentialsStore(database),
		permissions: gormstore.NewPermissionsStore(database),
		sink:        sink,
		close:       closeAudit,
	}, nil
}

func (e *permissionEnv) loader() *policy.Loader {
	return policy.NewLoader(e.credentials, e.permissions).
		WithActor(cliActor()).
		WithAudit(e.sink)
}
