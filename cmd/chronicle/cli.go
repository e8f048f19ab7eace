package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/errors"
	"github.com/hpungsan/chronicle/internal/ops"
	"github.com/hpungsan/chronicle/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "chronicle",
		Usage:   "Site change journal",
		Version: Version,
		Commands: []*cli.Command{
			recordCmd(db),
			logCmd(db),
			showCmd(db),
			inventoryCmd(db),
			changelogCmd(db, cfg),
			exportCmd(db, cfg, baseDir),
			importCmd(db, cfg, baseDir),
			purgeCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// recordCmd creates the record command.
func recordCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name: "record",
		Usage: "Record a bundle of changes as one commit " +
			"(repeat --change, or pipe a JSON array of change specs via stdin)",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "change", Aliases: []string{"c"},
				Usage: "Change as scope/action[/entity-id] (repeatable)"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"},
				Usage: "Display title for the entity of a single --change"},
			&cli.StringFlag{Name: "site-version", Aliases: []string{"s"},
				Usage: "Site version for the commit trailer (default: dev)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.RecordInput{Version: c.String("site-version")}

			if flags := c.StringSlice("change"); len(flags) > 0 {
				for _, raw := range flags {
					spec, err := parseChangeFlag(raw)
					if err != nil {
						return outputError(errors.NewInvalidRequest(err.Error()))
					}
					input.Changes = append(input.Changes, spec)
				}
				if title := c.String("title"); title != "" {
					if len(input.Changes) != 1 {
						return outputError(errors.NewInvalidRequest("--title requires exactly one --change"))
					}
					input.Changes[0].Title = title
				}
			} else {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("changes must be given via --change or piped via stdin"))
				}
				data, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if err := json.Unmarshal([]byte(data), &input.Changes); err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid change specs: %v", err)))
				}
			}

			output, err := ops.Record(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// logCmd creates the log command.
func logCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "List recorded commits, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Only commits containing a change of this kind"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
				Kind:   c.String("kind"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one commit with its decoded changes",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ranked", Aliases: []string{"r"},
				Usage: "List changes in display order instead of stored order"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ShowInput{Ranked: c.Bool("ranked")}
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			}

			output, err := ops.Show(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// inventoryCmd creates the inventory command.
func inventoryCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "Aggregate change counts per kind",
		Action: func(c *cli.Context) error {
			output, err := ops.Inventory(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// changelogCmd creates the changelog command.
func changelogCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "changelog",
		Usage: "Render recent history as a changelog document",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum commits to include"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Output format: markdown|html"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Changelog(db, cfg, ops.ChangelogInput{
				Limit:  c.Int("limit"),
				Format: ops.ChangelogFormat(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}

			// The document itself is the payload; print it raw.
			fmt.Println(output.Content)
			return nil
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the journal to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"},
				Usage: "Export file path (default: ~/.chronicle/exports/journal-<timestamp>.jsonl)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum commits to export (default: all)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(db, cfg, baseDir, ops.ExportInput{
				Path:  c.String("path"),
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import commits from a JSONL export file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Duplicate mode: error|skip|replace"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(db, cfg, baseDir, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete commits older than a cutoff",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Required: true,
				Usage: "Delete commits older than N days (e.g., 30d)"},
		},
		Action: func(c *cli.Context) error {
			days, err := parseDuration(c.String("older-than"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			output, err := ops.Purge(db, ops.PurgeInput{OlderThanDays: days})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only journal viewer over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// parseChangeFlag parses a --change value of the form scope/action[/entity-id].
// The entity id may itself contain slashes (plugin paths do).
func parseChangeFlag(raw string) (ops.ChangeSpec, error) {
	parts := strings.SplitN(raw, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ops.ChangeSpec{}, fmt.Errorf("change must look like scope/action[/entity-id], got %q", raw)
	}
	spec := ops.ChangeSpec{Scope: parts[0], Action: parts[1]}
	if len(parts) == 3 {
		spec.EntityID = parts[2]
	}
	return spec, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cerr, ok := err.(*errors.ChronicleError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", cerr.Code, cerr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseDuration parses "30d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 30d")
}
