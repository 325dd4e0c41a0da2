package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Problem is a single validation issue. Line is 0 for file-level problems.
type Problem struct {
	Line    int
	Message string
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("line %d: %s", p.Line, p.Message)
	}
	return p.Message
}

var (
	versionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
	changeTypes  = []string{"Added", "Changed", "Deprecated", "Removed", "Fixed", "Security"}
)

// Validate checks c against Keep a Changelog conventions. Releases must be
// listed newest first, below an [Unreleased] section.
func Validate(c *Changelog) []Problem {
	var problems []Problem
	add := func(line int, format string, args ...any) {
		problems = append(problems, Problem{Line: line, Message: fmt.Sprintf(format, args...)})
	}

	if !strings.Contains(strings.ToLower(c.Title), "changelog") {
		add(0, "missing changelog title (# Changelog)")
	}
	if len(c.Releases) == 0 || !strings.EqualFold(c.Releases[0].Version, "unreleased") {
		add(0, "first section must be [Unreleased]")
	}

	seen := make(map[string]bool)
	var previous time.Time
	for i, r := range c.Releases {
		if strings.EqualFold(r.Version, "unreleased") {
			if i > 0 {
				add(r.Line, "[Unreleased] must be the first section")
			}
		} else {
			if !versionRegex.MatchString(r.Version) {
				add(r.Line, "version %q is not semantic (X.Y.Z)", r.Version)
			}
			if seen[r.Version] {
				add(r.Line, "version %s is listed twice", r.Version)
			}
			seen[r.Version] = true

			date, err := time.Parse(time.DateOnly, r.Date)
			switch {
			case r.Date == "":
				add(r.Line, "version %s is missing a release date", r.Version)
			case err != nil:
				add(r.Line, "date %q is not YYYY-MM-DD", r.Date)
			case !previous.IsZero() && date.After(previous):
				add(r.Line, "version %s is dated after the release above it", r.Version)
			default:
				previous = date
			}
		}

		if _, ok := c.Links[r.Version]; !ok {
			add(0, "missing link definition for [%s]", r.Version)
		}

		for _, s := range r.Groups {
			if !isChangeType(s.Type) {
				add(s.Line, "invalid change type %q, expected one of %s", s.Type, strings.Join(changeTypes, ", "))
			}
			if len(s.Items) == 0 {
				add(s.Line, "section %s has no entries", s.Type)
			}
		}
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].Line < problems[j].Line })
	return problems
}

func isChangeType(s string) bool {
	for _, t := range changeTypes {
		if s == t {
			return true
		}
	}
	return false
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate CHANGELOG.md",
	Long: `Validate that the changelog follows Keep a Changelog.

Checks include:
- a "# Changelog" title and a leading [Unreleased] section
- semantic versions, each listed once, newest first
- release dates in YYYY-MM-DD form
- change types limited to Added, Changed, Deprecated, Removed, Fixed, Security
- a link definition for every section`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := readChangelog(cmd)
		if err != nil {
			return err
		}

		problems := Validate(c)
		if len(problems) == 0 {
			fmt.Println("✓ Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(problems))
		for _, p := range problems {
			fmt.Printf("  %s\n", p)
		}
		os.Exit(1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
