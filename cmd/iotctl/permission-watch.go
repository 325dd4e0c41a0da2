package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/policy"
)

// permissionWatchCmd represents the permission watch command
var permissionWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a permission file and reload it when it changes",
	Long: `Load a permission file, then reload it every time it is written.

Editors that save by renaming over the file are supported. A file that
fails to parse or names an unknown credential is reported and skipped;
watching continues until interrupted.

Example:
  iotctl permission watch /etc/iotauth/permissions.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchPermissions(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch permissions: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	permissionCmd.AddCommand(permissionWatchCmd)
}

func watchPermissions(ctx context.Context, filename string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	env, err := newPermissionEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for permission changes\n", filename)
	return policy.NewWatcher(filename, env.loader(), newLogger(cfg)).Run(ctx)
}
