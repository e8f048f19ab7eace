package ops

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/chronicle/internal/config"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path  string // optional, default: <baseDir>/exports/journal-<timestamp>.jsonl
	Limit int    // optional cap on exported commits; 0 exports everything stored
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the header line in a JSONL export file.
type ExportHeader struct {
	ChronicleExport bool   `json:"_chronicle_export"`
	SchemaVersion   string `json:"schema_version"`
	ExportedAt      int64  `json:"exported_at"`
}

// ExportRecord is one exported commit line. The body carries the entire
// envelope; the rest is bookkeeping so an import can rebuild the journal
// without re-ranking history.
type ExportRecord struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

// Export writes stored commits to a JSONL file, oldest data last (listing
// order). The file is written to a temp path first and renamed into place
// so a failed export never truncates an existing file.
func Export(database *sql.DB, cfg *config.Config, baseDir string, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		filename := fmt.Sprintf("journal-%s.jsonl", now.Format("2006-01-02T150405"))
		exportPath = filepath.Join(baseDir, "exports", filename)
	}

	if err := ValidatePath(exportPath, PathCheckWrite, cfg, baseDir); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = int(^uint(0) >> 1) // no cap
	}
	commits, err := db.ListRecentCommits(database, limit)
	if err != nil {
		return nil, err
	}

	tempPath := exportPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (any existing file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	writeLine := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return errors.NewInternal(err)
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return errors.NewInternal(err)
		}
		return nil
	}

	header := ExportHeader{
		ChronicleExport: true,
		SchemaVersion:   "1.0",
		ExportedAt:      exportedAt,
	}
	if err := writeLine(header); err != nil {
		return nil, err
	}

	for _, c := range commits {
		record := ExportRecord{
			ID:        c.ID,
			Subject:   c.Subject,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		}
		if err := writeLine(record); err != nil {
			return nil, err
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	if err := os.Rename(tempPath, exportPath); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      len(commits),
		ExportedAt: exportedAt,
	}, nil
}
