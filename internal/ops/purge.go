package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/chronicle/internal/db"
	"github.com/hpungsan/chronicle/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays int // required, must be positive
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge hard-deletes commits older than the given number of days, with
// their change rows.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.OlderThanDays <= 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be positive")
	}

	cutoff := time.Now().AddDate(0, 0, -input.OlderThanDays).Unix()
	purged, err := db.DeleteOlderThan(database, cutoff)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{Purged: purged}, nil
}
