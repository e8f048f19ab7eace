// Package changelog renders stored commit history as a human-readable
// changelog, either markdown or HTML.
package changelog

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Entry is one commit's contribution to the changelog.
type Entry struct {
	ID        string
	Subject   string
	CreatedAt int64
	// Details are the descriptions of every bundled change in ranked order.
	// When a commit holds a single change the subject already covers it and
	// details are omitted from the output.
	Details []string
}

// Markdown renders entries (expected newest-first) grouped by UTC day.
func Markdown(entries []Entry) string {
	var b strings.Builder
	b.WriteString("# Changelog\n")

	currentDay := ""
	for _, e := range entries {
		day := time.Unix(e.CreatedAt, 0).UTC().Format("2006-01-02")
		if day != currentDay {
			currentDay = day
			fmt.Fprintf(&b, "\n## %s\n\n", day)
		}

		fmt.Fprintf(&b, "- %s (`%s`)\n", e.Subject, e.ID)
		if len(e.Details) > 1 {
			for _, d := range e.Details {
				fmt.Fprintf(&b, "  - %s\n", d)
			}
		}
	}

	return b.String()
}

// HTML converts a markdown changelog to HTML.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render changelog: %w", err)
	}
	return buf.String(), nil
}
