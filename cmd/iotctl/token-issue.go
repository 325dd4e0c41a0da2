package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/identity"
	gormstore "github.com/iotbase/iot-auth/pkg/server/store/gorm"
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue <login>",
	Short: "Issue a session token for a user",
	Long: `Sign a session token for an existing user with session_secret.

The token is printed on stdout and is sent as
"Authorization: Bearer <token>".

Example:
  iotctl token issue alice@example.com
  iotctl token issue --ttl 1h alice@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := issueToken(cmd.Context(), args[0], ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().Duration("ttl", 8*time.Hour, "token lifetime")
}

func issueToken(ctx context.Context, login string, ttl time.Duration) (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.SessionSecret == "" {
		return "", identity.ErrNoSecret
	}

	database, err := connectDB(cfg)
	if err != nil {
		return "", err
	}
	user, err := gormstore.NewUsersStore(database).FindUserByLogin(ctx, login)
	if err != nil {
		return "", fmt.Errorf("user %s: %w", login, err)
	}
	return identity.Issue([]byte(cfg.SessionSecret), *user, ttl)
}
