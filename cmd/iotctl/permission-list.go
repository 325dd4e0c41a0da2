package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/server/store"
	"github.com/iotbase/iot-auth/pkg/topic"
)

// permissionListCmd represents the permission list command
var permissionListCmd = &cobra.Command{
	Use:   "list <credential>",
	Short: "List the active permissions of a credential",
	Long: `List the active permissions of a credential in the order the ACL
check scans them. MATCH is "filter" for topics with + or # levels and
"exact" otherwise.

Example:
  iotctl permission list user_alice_example_com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		perms, err := listPermissions(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list permissions: %v\n", err)
			os.Exit(1)
		}

		writePermissions(os.Stdout, perms)
	},
}

func init() {
	permissionCmd.AddCommand(permissionListCmd)
}

func listPermissions(ctx context.Context, name string) ([]store.Permission, error) {
	env, err := newPermissionEnv()
	if err != nil {
		return nil, err
	}
	defer env.close()

	cred, err := env.credentials.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("credential %s: %w", name, err)
	}
	return env.permissions.ListPermissions(ctx, cred.ID)
}

func writePermissions(out io.Writer, perms []store.Permission) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tACTION\tMATCH\tTOPIC")
	for _, p := range perms {
		match := "exact"
		if topic.HasWildcards(p.Topic) {
			match = "filter"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Action, match, p.Topic)
	}
	_ = w.Flush()
}
