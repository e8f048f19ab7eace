package ops

import (
	"testing"

	"github.com/hpungsan/chronicle/internal/db"
)

func TestPurge_RemovesOldCommits(t *testing.T) {
	database := testDB(t)
	ids := seedCommits(t, database, 2)

	// Backdate one commit by 10 days.
	old := int64(10 * 24 * 60 * 60)
	if _, err := database.Exec("UPDATE commits SET created_at = created_at - ? WHERE id = ?", old, ids[0]); err != nil {
		t.Fatal(err)
	}

	out, err := Purge(database, PurgeInput{OlderThanDays: 7})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}

	if exists, _ := db.CommitExists(database, ids[0]); exists {
		t.Error("backdated commit survived purge")
	}
	if exists, _ := db.CommitExists(database, ids[1]); !exists {
		t.Error("recent commit was purged")
	}
}

func TestPurge_RequiresPositiveDays(t *testing.T) {
	database := testDB(t)

	for _, days := range []int{0, -3} {
		if _, err := Purge(database, PurgeInput{OlderThanDays: days}); err == nil {
			t.Errorf("Purge(%d) succeeded, want error", days)
		}
	}
}
