package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validChangelog = `# Changelog

All notable changes to iot-auth are documented in this file.

## [Unreleased]

### Added
- Broker probe in /status

## [0.2.0] - 2026-03-02

### Added
- Permission files with hot reload
- ` + "`iotctl credential regenerate`" + `

### Fixed
- ` + "`a/#`" + ` now matches ` + "`a`" + `

## [0.1.0] - 2026-01-15

### Added
- Auth and ACL hooks

[Unreleased]: https://github.com/iotbase/iot-auth/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/iotbase/iot-auth/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/iotbase/iot-auth/releases/tag/v0.1.0
`

func TestParse(t *testing.T) {
	c := Parse([]byte(validChangelog))

	assert.Equal(t, "Changelog", c.Title)
	require.Len(t, c.Releases, 3)

	assert.Equal(t, "Unreleased", c.Releases[0].Version)
	assert.Empty(t, c.Releases[0].Date)
	assert.Equal(t, 5, c.Releases[0].Line)

	r := c.Releases[1]
	assert.Equal(t, "0.2.0", r.Version)
	assert.Equal(t, "2026-03-02", r.Date)
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "Added", r.Groups[0].Type)
	assert.Equal(t, []string{"Permission files with hot reload", "`iotctl credential regenerate`"}, r.Groups[0].Items)
	assert.Equal(t, "Fixed", r.Groups[1].Type)
	assert.Len(t, r.Groups[1].Items, 1)

	assert.Len(t, c.Links, 3)
	assert.Equal(t, "https://github.com/iotbase/iot-auth/releases/tag/v0.1.0", c.Links["0.1.0"])
}

func TestParse_BodyExcludesNeighbours(t *testing.T) {
	c := Parse([]byte(validChangelog))

	body := c.Release("0.2.0").Body
	assert.True(t, strings.HasPrefix(body, "### Added"), body)
	assert.NotContains(t, body, "## [0.1.0]")

	last := c.Release("0.1.0").Body
	assert.Equal(t, "### Added\n- Auth and ACL hooks", last)
}

func TestRelease(t *testing.T) {
	c := Parse([]byte(validChangelog))

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{"exact version", "0.2.0", "0.2.0"},
		{"with v prefix", "v0.2.0", "0.2.0"},
		{"unreleased any case", "unreleased", "Unreleased"},
		{"missing", "9.9.9", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.Release(tt.version)
			if tt.expected == "" {
				assert.Nil(t, r)
				return
			}
			require.NotNil(t, r)
			assert.Equal(t, tt.expected, r.Version)
		})
	}

	require.NotNil(t, c.Latest())
	assert.Equal(t, "0.2.0", c.Latest().Version)
}

func TestNotes(t *testing.T) {
	c := Parse([]byte(validChangelog))

	notes := Notes(c, c.Release("0.1.0"))
	assert.Equal(t, "## [0.1.0] - 2026-01-15\n\n### Added\n- Auth and ACL hooks\n\n[0.1.0]: https://github.com/iotbase/iot-auth/releases/tag/v0.1.0\n", notes)
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(Parse([]byte(validChangelog))))

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "missing title",
			source: "## [Unreleased]\n\n[Unreleased]: https://example.com\n",
			want:   "missing changelog title",
		},
		{
			name:   "missing unreleased",
			source: "# Changelog\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- x\n\n[1.0.0]: https://example.com\n",
			want:   "first section must be [Unreleased]",
		},
		{
			name:   "bad date",
			source: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 15-01-2026\n\n### Added\n- x\n\n[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n",
			want:   "is not YYYY-MM-DD",
		},
		{
			name:   "missing date",
			source: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0]\n\n### Added\n- x\n\n[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n",
			want:   "missing a release date",
		},
		{
			name:   "out of order",
			source: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- x\n\n## [1.1.0] - 2026-02-01\n\n### Added\n- y\n\n[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n[1.1.0]: https://example.com\n",
			want:   "dated after the release above it",
		},
		{
			name:   "invalid change type",
			source: "# Changelog\n\n## [Unreleased]\n\n### New\n- x\n\n[Unreleased]: https://example.com\n",
			want:   `invalid change type "New"`,
		},
		{
			name:   "empty section",
			source: "# Changelog\n\n## [Unreleased]\n\n### Added\n\n[Unreleased]: https://example.com\n",
			want:   "section Added has no entries",
		},
		{
			name:   "missing link",
			source: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- x\n\n[Unreleased]: https://example.com\n",
			want:   "missing link definition for [1.0.0]",
		},
		{
			name:   "not semantic",
			source: "# Changelog\n\n## [Unreleased]\n\n## [1.0] - 2026-01-15\n\n### Added\n- x\n\n[Unreleased]: https://example.com\n[1.0]: https://example.com\n",
			want:   `version "1.0" is not semantic`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate(Parse([]byte(tt.source)))
			assert.True(t, hasProblem(problems, tt.want), "got %v", problems)
		})
	}
}

func hasProblem(problems []Problem, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p.Message, substr) {
			return true
		}
	}
	return false
}
