package ops

import (
	"database/sql"

	"github.com/hpungsan/chronicle/internal/db"
)

// InventoryOutput contains the result of the Inventory operation.
type InventoryOutput struct {
	Kinds        []db.KindCount `json:"kinds"`
	TotalChanges int            `json:"total_changes"`
}

// Inventory aggregates the stored journal per change kind.
func Inventory(database *sql.DB) (*InventoryOutput, error) {
	counts, err := db.CountByKind(database)
	if err != nil {
		return nil, err
	}

	if counts == nil {
		counts = []db.KindCount{}
	}

	total := 0
	for _, kc := range counts {
		total += kc.Count
	}

	return &InventoryOutput{Kinds: counts, TotalChanges: total}, nil
}
