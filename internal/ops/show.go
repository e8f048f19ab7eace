package ops

import (
	"database/sql"

	"github.com/hpungsan/chronicle/internal/change"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/envelope"
	"github.com/hpungsan/chronicle/internal/errors"
)

// ShowInput contains parameters for the Show operation.
type ShowInput struct {
	ID string // required
	// Ranked switches the change listing from textual (stored) order to
	// display order.
	Ranked bool
}

// ChangeView is the decoded, display-oriented view of one change.
type ChangeView struct {
	Kind        string `json:"kind"`
	Action      string `json:"action"`
	EntityID    string `json:"entity_id,omitempty"`
	Description string `json:"description"`
}

// ShowOutput contains the result of the Show operation.
type ShowOutput struct {
	ID        string       `json:"id"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
	Version   *string      `json:"version,omitempty"`
	CreatedAt int64        `json:"created_at"`
	Changes   []ChangeView `json:"changes"`
}

// Show loads a stored commit and decodes its body back into change records.
func Show(database *sql.DB, input ShowInput) (*ShowOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	commit, err := db.GetCommit(database, input.ID)
	if err != nil {
		return nil, err
	}

	env, err := envelope.Decode(commit.Subject, commit.Body, change.DefaultRegistry())
	if err != nil {
		return nil, err
	}

	records := env.Records()
	if input.Ranked {
		records = env.Ranked()
	}

	views := make([]ChangeView, len(records))
	for i, r := range records {
		views[i] = ChangeView{
			Kind:        string(r.Kind()),
			Action:      r.Action(),
			EntityID:    r.EntityID(),
			Description: r.Description(),
		}
	}

	var version *string
	if v := env.Version(); v != "" {
		version = &v
	}

	return &ShowOutput{
		ID:        commit.ID,
		Subject:   commit.Subject,
		Body:      commit.Body,
		Version:   version,
		CreatedAt: commit.CreatedAt,
		Changes:   views,
	}, nil
}
