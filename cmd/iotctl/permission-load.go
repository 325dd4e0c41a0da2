package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/policy"
)

// permissionLoadCmd represents the permission load command
var permissionLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a permission file",
	Long: `Apply the grants and revocations of a permission file.

Every credential named in the file must exist and be active, and every
rule must be valid; otherwise nothing is written. A load is not
all-or-nothing past that point: if the database fails part way through,
the changes applied before the failure stay. Loading the same file again
is safe and completes the rest. Grants that already exist and revocations
that match nothing are counted as unchanged.

Example:
  iotctl permission load permissions.yml
  iotctl permission load --dry-run permissions.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		result, err := loadPermissionFile(cmd.Context(), args[0], dryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load permissions: %v\n", err)
			os.Exit(1)
		}

		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	permissionCmd.AddCommand(permissionLoadCmd)

	permissionLoadCmd.Flags().Bool("dry-run", false, "validate the file and resolve credentials without writing")
}

func loadPermissionFile(ctx context.Context, filename string, dryRun bool) (*policy.Result, error) {
	doc, err := policy.ParseFile(filename)
	if err != nil {
		return nil, err
	}

	env, err := newPermissionEnv()
	if err != nil {
		return nil, err
	}
	defer env.close()

	return env.loader().WithDryRun(dryRun).Load(ctx, doc)
}
