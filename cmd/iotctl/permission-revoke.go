package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/policy"
)

// permissionRevokeCmd represents the permission revoke command
var permissionRevokeCmd = &cobra.Command{
	Use:   "revoke <credential> <topic> <action>",
	Short: "Revoke a single permission",
	Long: `Deactivate the active permission of a credential that matches the
topic and action exactly. Revoking "all" does not touch separate publish
or subscribe permissions on the same topic.

Example:
  iotctl permission revoke device_42 1/42/+/sdata publish`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := revokePermission(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke permission: %v\n", err)
			os.Exit(1)
		}
		if result.Revoked == 0 {
			fmt.Printf("No active %s permission on %s for %s\n", args[2], args[1], args[0])
			return
		}
		fmt.Printf("Revoked %s on %s for %s\n", args[2], args[1], args[0])
	},
}

func init() {
	permissionCmd.AddCommand(permissionRevokeCmd)
}

func revokePermission(ctx context.Context, name, topic, action string) (*policy.Result, error) {
	doc := &policy.Document{Credentials: []policy.Entry{{
		Name:   name,
		Revoke: []policy.Rule{{Topic: topic, Action: action}},
	}}}

	env, err := newPermissionEnv()
	if err != nil {
		return nil, err
	}
	defer env.close()

	return env.loader().Load(ctx, doc)
}
