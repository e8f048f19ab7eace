package ops

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hpungsan/chronicle/internal/change"
	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/envelope"
	"github.com/hpungsan/chronicle/internal/errors"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // default: fail on duplicate commit ID
	ImportModeSkip    ImportMode = "skip"    // keep existing commit, count as skipped
	ImportModeReplace ImportMode = "replace" // overwrite existing commit
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import reads a JSONL export file and rebuilds journal rows from it. Every
// body must decode as an envelope: a line that cannot be decoded aborts the
// whole import, since silently dropping it would corrupt reconstructed
// history. Decoding also regenerates the change-row projection, so imports
// repair a journal whose projection predates a schema change.
func Import(database *sql.DB, cfg *config.Config, baseDir string, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeSkip && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, skip, replace")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg, baseDir); err != nil {
		return nil, err
	}

	file, err := os.Open(input.Path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	registry := change.DefaultRegistry()
	out := &ImportOutput{}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Header line: validate and move on.
		if lineNo == 1 && strings.Contains(line, `"_chronicle_export"`) {
			var header ExportHeader
			if err := json.Unmarshal([]byte(line), &header); err != nil || !header.ChronicleExport {
				return nil, errors.NewInvalidRequest("unrecognized export header")
			}
			continue
		}

		var record ExportRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("line %d: invalid JSON: %v", lineNo, err))
		}
		if record.ID == "" || record.Body == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("line %d: id and body are required", lineNo))
		}

		env, err := envelope.Decode(record.Subject, record.Body, registry)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("line %d: body does not decode: %v", lineNo, err))
		}

		var version *string
		if v := env.Version(); v != "" {
			version = &v
		}
		createdAt := record.CreatedAt
		if createdAt == 0 {
			createdAt = time.Now().Unix()
		}
		commit := &db.Commit{
			ID:          record.ID,
			Subject:     record.Subject,
			Body:        record.Body,
			Version:     version,
			ChangeCount: len(env.Records()),
			CreatedAt:   createdAt,
		}
		rows := changeRows(record.ID, env.Ranked())

		exists, err := db.CommitExists(database, record.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case exists && input.Mode == ImportModeSkip:
			out.Skipped++
			continue
		case exists && input.Mode == ImportModeReplace:
			if err := db.ReplaceCommit(database, commit, rows); err != nil {
				return nil, err
			}
		default:
			// Mode error relies on the unique constraint to surface duplicates.
			if err := db.InsertCommit(database, commit, rows); err != nil {
				return nil, err
			}
		}
		out.Imported++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}

	return out, nil
}
