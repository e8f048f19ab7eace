package db

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/chronicle/internal/errors"
)

// Commit is a stored commit message row: the encoded envelope text plus
// bookkeeping. The body remains the source of truth; change rows are a
// queryable projection written at insert time.
type Commit struct {
	ID          string
	Subject     string
	Body        string
	Version     *string // nil when the commit carries no version marker
	ChangeCount int
	CreatedAt   int64
}

// ChangeRow is the per-change projection of a commit, in ranked order.
type ChangeRow struct {
	CommitID string
	Position int
	Kind     string
	Action   string
	EntityID string
}

// CommitSummary is the listing view of a commit (no body).
type CommitSummary struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	ChangeCount int    `json:"change_count"`
	CreatedAt   int64  `json:"created_at"`
}

// KindCount is one row of the inventory aggregation.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// InsertCommit stores a commit and its change rows in one transaction.
func InsertCommit(db *sql.DB, c *Commit, changes []ChangeRow) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO commits (id, subject, body, version, change_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Subject, c.Body, toNullString(c.Version), c.ChangeCount, c.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict(c.ID)
		}
		return errors.NewInternal(err)
	}

	for _, ch := range changes {
		_, err = tx.Exec(
			`INSERT INTO changes (commit_id, position, kind, action, entity_id)
			 VALUES (?, ?, ?, ?, ?)`,
			c.ID, ch.Position, ch.Kind, ch.Action, ch.EntityID,
		)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ReplaceCommit deletes any commit with the same ID and inserts the given
// one atomically. Used by import in replace mode.
func ReplaceCommit(db *sql.DB, c *Commit, changes []ChangeRow) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	// Cascade removes the old change rows.
	if _, err := tx.Exec(`DELETE FROM commits WHERE id = ?`, c.ID); err != nil {
		return errors.NewInternal(err)
	}

	_, err = tx.Exec(
		`INSERT INTO commits (id, subject, body, version, change_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Subject, c.Body, toNullString(c.Version), c.ChangeCount, c.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	for _, ch := range changes {
		_, err = tx.Exec(
			`INSERT INTO changes (commit_id, position, kind, action, entity_id)
			 VALUES (?, ?, ?, ?, ?)`,
			c.ID, ch.Position, ch.Kind, ch.Action, ch.EntityID,
		)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetCommit retrieves a commit by ID.
func GetCommit(db *sql.DB, id string) (*Commit, error) {
	row := db.QueryRow(
		`SELECT id, subject, body, version, change_count, created_at
		 FROM commits WHERE id = ?`, id,
	)

	var c Commit
	var version sql.NullString
	err := row.Scan(&c.ID, &c.Subject, &c.Body, &version, &c.ChangeCount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if version.Valid {
		c.Version = &version.String
	}
	return &c, nil
}

// CommitExists reports whether a commit with the given ID is stored.
func CommitExists(db *sql.DB, id string) (bool, error) {
	var one int
	err := db.QueryRow(`SELECT 1 FROM commits WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// ListCommits returns commit summaries newest-first, optionally filtered to
// commits containing at least one change of the given kind.
func ListCommits(db *sql.DB, limit, offset int, kind string) ([]CommitSummary, int, error) {
	where := ""
	args := []any{}
	if kind != "" {
		where = `WHERE EXISTS (
			SELECT 1 FROM changes WHERE changes.commit_id = commits.id AND changes.kind = ?
		)`
		args = append(args, kind)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM commits `+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT id, subject, change_count, created_at FROM commits ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []CommitSummary
	for rows.Next() {
		var s CommitSummary
		if err := rows.Scan(&s.ID, &s.Subject, &s.ChangeCount, &s.CreatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return items, total, nil
}

// ListRecentCommits returns full commit rows newest-first, for changelog
// generation.
func ListRecentCommits(db *sql.DB, limit int) ([]Commit, error) {
	rows, err := db.Query(
		`SELECT id, subject, body, version, change_count, created_at
		 FROM commits ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var c Commit
		var version sql.NullString
		if err := rows.Scan(&c.ID, &c.Subject, &c.Body, &version, &c.ChangeCount, &c.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		if version.Valid {
			c.Version = &version.String
		}
		commits = append(commits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return commits, nil
}

// CountByKind aggregates stored change rows per kind, most frequent first.
func CountByKind(db *sql.DB) ([]KindCount, error) {
	rows, err := db.Query(
		`SELECT kind, COUNT(*) FROM changes GROUP BY kind ORDER BY COUNT(*) DESC, kind ASC`,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts = append(counts, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return counts, nil
}

// DeleteOlderThan hard-deletes commits created before the cutoff timestamp.
// Change rows follow via cascade.
func DeleteOlderThan(db *sql.DB, cutoff int64) (int, error) {
	result, err := db.Exec(`DELETE FROM commits WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
