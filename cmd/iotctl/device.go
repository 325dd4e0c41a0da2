package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// deviceCmd represents the device command
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage devices",
	Long:  `Create and list the devices of a company.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'device' requires a subcommand (create, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(deviceCmd)
}
