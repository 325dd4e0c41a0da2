package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// brokerCmd represents the broker command
var brokerCmd = &cobra.Command{
	Use:   "broker",
	Short: "Inspect the MQTT broker",
	Long:  `Inspect the MQTT broker configured by broker_url or broker_host/broker_port.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'broker' requires a subcommand (check)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(brokerCmd)
}
