package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func readChangelog(cmd *cobra.Command) (*Changelog, error) {
	file, _ := cmd.Flags().GetString("file")
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Parse(source), nil
}

// Notes renders the release notes of r as markdown
func Notes(c *Changelog, r *Release) string {
	out := fmt.Sprintf("## [%s]", r.Version)
	if r.Date != "" {
		out += " - " + r.Date
	}
	out += "\n\n" + r.Body
	if url, ok := c.Links[r.Version]; ok {
		out += fmt.Sprintf("\n\n[%s]: %s", r.Version, url)
	}
	return out + "\n"
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Print the release notes of a version",
	Long: `Print the release notes of a version, as markdown for a GitHub release
or as JSON. Without --version the newest release is used.

Example:
  changelog notes --version v0.3.0
  changelog notes --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetString("version")
		format, _ := cmd.Flags().GetString("format")

		c, err := readChangelog(cmd)
		if err != nil {
			return err
		}

		release := c.Latest()
		if version != "" {
			release = c.Release(version)
		}
		if release == nil {
			return fmt.Errorf("version %q not found in changelog", version)
		}

		switch format {
		case "markdown":
			fmt.Print(Notes(c, release))
		case "json":
			output, _ := json.MarshalIndent(release, "", "  ")
			fmt.Println(string(output))
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the versions in the changelog",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := readChangelog(cmd)
		if err != nil {
			return err
		}
		for _, r := range c.Releases {
			if r.Date != "" {
				fmt.Printf("%s (%s)\n", r.Version, r.Date)
			} else {
				fmt.Println(r.Version)
			}
		}
		return nil
	},
}

func init() {
	notesCmd.Flags().StringP("version", "v", "", "version to print (with or without 'v' prefix)")
	notesCmd.Flags().String("format", "markdown", "output format (markdown, json)")

	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(listCmd)
}
