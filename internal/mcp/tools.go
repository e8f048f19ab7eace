package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the journal MCP surface.

var recordToolDef = mcp.NewTool("journal_record",
	mcp.WithDescription("Record a bundle of site changes as one journal commit. "+
		"The subject line is derived from the highest-priority change in the bundle."),
	mcp.WithArray("changes",
		mcp.Required(),
		mcp.Description("Change specs to bundle. Each needs scope and action; "+
			"most scopes also need entity_id."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scope": map[string]any{
					"type": "string",
					"enum": []string{"post", "comment", "user", "option", "term", "meta", "plugin", "theme", "core", "tool", "revert"},
				},
				"action":    map[string]any{"type": "string"},
				"entity_id": map[string]any{"type": "string"},
				"title":     map[string]any{"type": "string"},
				"taxonomy":  map[string]any{"type": "string"},
				"parent":    map[string]any{"type": "string"},
				"parent_id": map[string]any{"type": "string"},
				"version":   map[string]any{"type": "string"},
			},
			"required": []string{"scope", "action"},
		}),
	),
	mcp.WithString("version",
		mcp.Description("Site version stamped into the commit trailer (default: dev)"),
	),
)

var logToolDef = mcp.NewTool("journal_log",
	mcp.WithDescription("List recorded commits, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Max commits to return (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of commits to skip"),
	),
	mcp.WithString("kind",
		mcp.Description("Only commits containing a change of this kind"),
	),
)

var showToolDef = mcp.NewTool("journal_show",
	mcp.WithDescription("Show one commit with its decoded changes."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Commit ID (ULID)"),
	),
	mcp.WithBoolean("ranked",
		mcp.Description("List changes in display order instead of stored order"),
	),
)

var inventoryToolDef = mcp.NewTool("journal_inventory",
	mcp.WithDescription("Aggregate change counts per kind across the journal."),
)

var changelogToolDef = mcp.NewTool("journal_changelog",
	mcp.WithDescription("Render recent history as a changelog document."),
	mcp.WithNumber("limit",
		mcp.Description("Max commits to include (default from config)"),
	),
	mcp.WithString("format",
		mcp.Description("Output format: markdown (default) or html"),
		mcp.Enum("markdown", "html"),
	),
)

var exportToolDef = mcp.NewTool("journal_export",
	mcp.WithDescription("Export the journal to a JSONL file."),
	mcp.WithString("path",
		mcp.Description("Target .jsonl path (default: exports dir under the data directory)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Max commits to export (default: all)"),
	),
)

var importToolDef = mcp.NewTool("journal_import",
	mcp.WithDescription("Import commits from a JSONL export file."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source .jsonl path"),
	),
	mcp.WithString("mode",
		mcp.Description("Duplicate handling: error (default), skip, or replace"),
		mcp.Enum("error", "skip", "replace"),
	),
)

var purgeToolDef = mcp.NewTool("journal_purge",
	mcp.WithDescription("Hard-delete commits older than a cutoff."),
	mcp.WithNumber("older_than_days",
		mcp.Required(),
		mcp.Description("Delete commits older than this many days"),
	),
)
