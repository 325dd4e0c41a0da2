package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "iotctl",
	Short:   "Operate the IoT broker auth/ACL service",
	Long:    `Run the broker authentication and ACL hook server and manage its credentials, devices and permissions.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
