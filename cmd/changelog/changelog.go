package main

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Release is one "## [version] - date" block of CHANGELOG.md
type Release struct {
	Version string    `json:"version"`
	Date    string    `json:"date,omitempty"`
	Line    int       `json:"-"`
	Body    string    `json:"-"`
	Groups  []Section `json:"sections"`
}

// Section is one "### Type" list inside a release
type Section struct {
	Type  string   `json:"type"`
	Line  int      `json:"-"`
	Items []string `json:"items"`
}

// Changelog is a parsed Keep a Changelog file
type Changelog struct {
	Title    string
	Releases []Release
	Links    map[string]string
}

// Release returns the release with the given version, ignoring a "v" prefix
func (c *Changelog) Release(version string) *Release {
	version = strings.TrimPrefix(version, "v")
	for i := range c.Releases {
		if strings.EqualFold(strings.TrimPrefix(c.Releases[i].Version, "v"), version) {
			return &c.Releases[i]
		}
	}
	return nil
}

// Latest returns the newest released version, skipping Unreleased
func (c *Changelog) Latest() *Release {
	for i := range c.Releases {
		if !strings.EqualFold(c.Releases[i].Version, "unreleased") {
			return &c.Releases[i]
		}
	}
	return nil
}

// Parse walks the markdown AST of source
func Parse(source []byte) *Changelog {
	ctx := parser.NewContext()
	doc := goldmark.New().Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	c := &Changelog{Links: make(map[string]string)}
	for _, ref := range ctx.References() {
		c.Links[string(ref.Label())] = string(ref.Destination())
	}

	// bodyStart of the current release, used to cut its raw markdown
	bodyStart := -1
	closeBody := func(end int) {
		if bodyStart < 0 || len(c.Releases) == 0 {
			return
		}
		if end > bodyStart {
			c.Releases[len(c.Releases)-1].Body = strings.TrimSpace(string(source[bodyStart:end]))
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := headingText(node, source)
			start, stop := span(node)
			switch node.Level {
			case 1:
				c.Title = heading
			case 2:
				closeBody(lineStart(source, start))
				version, date := splitHeading(heading)
				c.Releases = append(c.Releases, Release{Version: version, Date: date, Line: lineOf(source, start)})
				bodyStart = stop
			case 3:
				if r := c.current(); r != nil {
					r.Groups = append(r.Groups, Section{Type: heading, Line: lineOf(source, start)})
				}
			}
		case *ast.List:
			if s := c.currentSection(); s != nil {
				s.Items = append(s.Items, listItems(node, source)...)
			}
		}
	}
	closeBody(len(source))

	for i := range c.Releases {
		c.Releases[i].Body = stripLinkDefinitions(c.Releases[i].Body)
	}
	return c
}

func (c *Changelog) current() *Release {
	if len(c.Releases) == 0 {
		return nil
	}
	return &c.Releases[len(c.Releases)-1]
}

func (c *Changelog) currentSection() *Section {
	r := c.current()
	if r == nil || len(r.Groups) == 0 {
		return nil
	}
	return &r.Groups[len(r.Groups)-1]
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func listItems(list *ast.List, source []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		start, stop := span(item)
		if stop > start {
			items = append(items, strings.TrimSpace(string(source[start:stop])))
		}
	}
	return items
}

// span returns the byte range covered by the lines of node and its children
func span(node ast.Node) (int, int) {
	start, stop := -1, -1
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := n.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		if first := lines.At(0).Start; start < 0 || first < start {
			start = first
		}
		if last := lines.At(lines.Len() - 1).Stop; last > stop {
			stop = last
		}
		return ast.WalkContinue, nil
	})
	return start, stop
}

func lineOf(source []byte, offset int) int {
	if offset < 0 {
		return 0
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

// lineStart backs offset up to the beginning of its line
func lineStart(source []byte, offset int) int {
	if offset <= 0 {
		return 0
	}
	return bytes.LastIndexByte(source[:offset], '\n') + 1
}

func splitHeading(heading string) (version, date string) {
	version, date, _ = strings.Cut(heading, " - ")
	return strings.Trim(strings.TrimSpace(version), "[]"), strings.TrimSpace(date)
}

func stripLinkDefinitions(body string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.Contains(trimmed, "]: ") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
