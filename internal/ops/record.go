package ops

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/chronicle/internal/change"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/envelope"
	"github.com/hpungsan/chronicle/internal/errors"
)

// ChangeSpec is the caller-facing flat description of one observed change.
// External detectors produce these; Record turns them into typed change
// records. Which fields apply depends on the scope.
type ChangeSpec struct {
	Scope    string `json:"scope"`               // post, comment, user, option, term, meta, plugin, theme, core, tool, revert
	Action   string `json:"action"`              // create, update, delete, switch, activate, ...
	EntityID string `json:"entity_id,omitempty"` // post ID, option name, slug, commit ID, ...
	Title    string `json:"title,omitempty"`     // display name (post title, plugin/theme/term name, comment's post title)
	Taxonomy string `json:"taxonomy,omitempty"`  // term only
	Parent   string `json:"parent,omitempty"`    // meta only: parent entity scope
	ParentID string `json:"parent_id,omitempty"` // meta only: parent entity id
	Version  string `json:"version,omitempty"`   // core/tool only
}

// RecordInput contains parameters for the Record operation.
type RecordInput struct {
	Changes []ChangeSpec
	Version string // tool version embedded in the commit; "" uses the envelope default
}

// RecordOutput contains the result of the Record operation.
type RecordOutput struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ChangeCount int    `json:"change_count"`
	CreatedAt   int64  `json:"created_at"`
}

// Record bundles the given changes into one envelope, encodes it as a
// commit message, and stores it in the journal.
func Record(database *sql.DB, input RecordInput) (*RecordOutput, error) {
	if len(input.Changes) == 0 {
		return nil, errors.NewInvalidRequest("at least one change is required")
	}

	records := make([]change.Record, 0, len(input.Changes))
	for i, spec := range input.Changes {
		record, err := buildRecord(spec)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("change %d: %v", i, err))
		}
		records = append(records, record)
	}

	env, err := envelope.New(records, input.Version)
	if err != nil {
		return nil, err
	}
	subject, body := env.Encode()

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	version := env.Version()
	commit := &db.Commit{
		ID:          id,
		Subject:     subject,
		Body:        body,
		Version:     &version,
		ChangeCount: len(records),
		CreatedAt:   time.Now().Unix(),
	}
	if err := db.InsertCommit(database, commit, changeRows(id, env.Ranked())); err != nil {
		return nil, err
	}

	return &RecordOutput{
		ID:          id,
		Subject:     subject,
		Body:        body,
		ChangeCount: len(records),
		CreatedAt:   commit.CreatedAt,
	}, nil
}

// changeRows projects ranked records into queryable rows.
func changeRows(commitID string, records []change.Record) []db.ChangeRow {
	rows := make([]db.ChangeRow, len(records))
	for i, r := range records {
		rows[i] = db.ChangeRow{
			CommitID: commitID,
			Position: i,
			Kind:     string(r.Kind()),
			Action:   r.Action(),
			EntityID: r.EntityID(),
		}
	}
	return rows
}

// buildRecord maps a flat spec onto its typed variant.
func buildRecord(spec ChangeSpec) (change.Record, error) {
	if spec.Action == "" {
		return nil, fmt.Errorf("action is required")
	}

	needEntity := func() error {
		if spec.EntityID == "" {
			return fmt.Errorf("entity_id is required for scope %q", spec.Scope)
		}
		return nil
	}

	switch change.Kind(spec.Scope) {
	case change.KindPost:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.PostChange{Act: spec.Action, PostID: spec.EntityID, Title: spec.Title}, nil
	case change.KindComment:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.CommentChange{Act: spec.Action, CommentID: spec.EntityID, PostTitle: spec.Title}, nil
	case change.KindUser:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.UserChange{Act: spec.Action, Login: spec.EntityID}, nil
	case change.KindOption:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.OptionChange{Act: spec.Action, Name: spec.EntityID}, nil
	case change.KindTerm:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.TermChange{Act: spec.Action, TermID: spec.EntityID, Name: spec.Title, Taxonomy: spec.Taxonomy}, nil
	case change.KindMeta:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.MetaChange{Act: spec.Action, Key: spec.EntityID, ParentScope: spec.Parent, ParentID: spec.ParentID}, nil
	case change.KindPlugin:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.PluginChange{Act: spec.Action, Slug: spec.EntityID, Name: spec.Title}, nil
	case change.KindTheme:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.ThemeChange{Act: spec.Action, Slug: spec.EntityID, Name: spec.Title}, nil
	case change.KindCore:
		return change.CoreChange{Act: spec.Action, Version: spec.Version}, nil
	case change.KindTool:
		return change.ToolChange{Act: spec.Action, Version: spec.Version}, nil
	case change.KindRevert:
		if err := needEntity(); err != nil {
			return nil, err
		}
		return change.RevertChange{Act: spec.Action, CommitID: spec.EntityID}, nil
	}
	return nil, fmt.Errorf("unknown scope %q", spec.Scope)
}
