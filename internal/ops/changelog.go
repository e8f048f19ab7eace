package ops

import (
	"database/sql"

	"github.com/hpungsan/chronicle/internal/change"
	"github.com/hpungsan/chronicle/internal/changelog"
	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/envelope"
	"github.com/hpungsan/chronicle/internal/errors"
)

// ChangelogFormat selects the changelog output format.
type ChangelogFormat string

const (
	ChangelogMarkdown ChangelogFormat = "markdown"
	ChangelogHTML     ChangelogFormat = "html"
)

// ChangelogInput contains parameters for the Changelog operation.
type ChangelogInput struct {
	Limit  int             // default: cfg.ChangelogLimit
	Format ChangelogFormat // default: markdown
}

// ChangelogOutput contains the result of the Changelog operation.
type ChangelogOutput struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	Count   int    `json:"count"`
}

// Changelog renders recent journal history as a changelog document. Each
// stored body is decoded so the entry reflects the records, not just the
// stored subject line.
func Changelog(database *sql.DB, cfg *config.Config, input ChangelogInput) (*ChangelogOutput, error) {
	format := input.Format
	if format == "" {
		format = ChangelogMarkdown
	}
	if format != ChangelogMarkdown && format != ChangelogHTML {
		return nil, errors.NewInvalidRequest("format must be one of: markdown, html")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.ChangelogLimit
	}

	commits, err := db.ListRecentCommits(database, limit)
	if err != nil {
		return nil, err
	}

	registry := change.DefaultRegistry()
	entries := make([]changelog.Entry, 0, len(commits))
	for _, c := range commits {
		env, err := envelope.Decode(c.Subject, c.Body, registry)
		if err != nil {
			return nil, err
		}

		ranked := env.Ranked()
		details := make([]string, len(ranked))
		for i, r := range ranked {
			details[i] = r.Description()
		}

		entries = append(entries, changelog.Entry{
			ID:        c.ID,
			Subject:   env.Description(),
			CreatedAt: c.CreatedAt,
			Details:   details,
		})
	}

	content := changelog.Markdown(entries)
	if format == ChangelogHTML {
		content, err = changelog.HTML(content)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	return &ChangelogOutput{
		Content: content,
		Format:  string(format),
		Count:   len(entries),
	}, nil
}
