package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Check and extract iot-auth release notes",
	Long:  `Validate CHANGELOG.md and extract the notes of a release for packaging.`,
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "CHANGELOG.md", "path to the changelog file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
