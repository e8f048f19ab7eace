package ops

import (
	"database/sql"

	"github.com/hpungsan/chronicle/internal/change"
	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int    // default: DefaultListLimit, max: MaxListLimit
	Offset int    // default: 0
	Kind   string // optional: only commits containing a change of this kind
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []db.CommitSummary `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"`
}

// List retrieves commit summaries with pagination, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	if input.Kind != "" && !knownKind(input.Kind) {
		return nil, errors.NewInvalidRequest("unknown kind: " + input.Kind)
	}

	items, total, err := db.ListCommits(database, limit, offset, input.Kind)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if items == nil {
		items = []db.CommitSummary{}
	}

	hasMore := offset+len(items) < total

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}

// knownKind reports whether the string names a built-in change kind.
func knownKind(s string) bool {
	switch change.Kind(s) {
	case change.KindPost, change.KindComment, change.KindUser, change.KindOption,
		change.KindTerm, change.KindMeta, change.KindPlugin, change.KindTheme,
		change.KindCore, change.KindTool, change.KindRevert:
		return true
	}
	return false
}
