package ops

import (
	"testing"

	"github.com/hpungsan/chronicle/internal/errors"
)

func TestShow_RoundTrip(t *testing.T) {
	database := testDB(t)

	recorded, err := Record(database, RecordInput{
		Changes: []ChangeSpec{
			{Scope: "theme", Action: "activate", EntityID: "twentyfifteen", Title: "Twenty Fifteen"},
			{Scope: "theme", Action: "switch", EntityID: "twentysixteen", Title: "Twenty Sixteen"},
		},
		Version: "2.1.0",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	out, err := Show(database, ShowInput{ID: recorded.ID})
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	if out.Subject != "Theme switched to 'Twenty Sixteen'" {
		t.Errorf("Subject = %q", out.Subject)
	}
	if out.Version == nil || *out.Version != "2.1.0" {
		t.Errorf("Version = %v, want 2.1.0", out.Version)
	}
	if len(out.Changes) != 2 {
		t.Fatalf("Changes len = %d, want 2", len(out.Changes))
	}
	// Textual order equals ranked-at-encode-time order: switch first.
	if out.Changes[0].Action != "switch" {
		t.Errorf("Changes[0].Action = %q, want switch", out.Changes[0].Action)
	}
	if out.Changes[1].Description != "Theme 'Twenty Fifteen' activated" {
		t.Errorf("Changes[1].Description = %q", out.Changes[1].Description)
	}
}

func TestShow_RankedView(t *testing.T) {
	database := testDB(t)

	recorded, err := Record(database, RecordInput{
		Changes: []ChangeSpec{
			{Scope: "option", Action: "update", EntityID: "blogname"},
			{Scope: "post", Action: "create", EntityID: "7", Title: "Hi"},
		},
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	out, err := Show(database, ShowInput{ID: recorded.ID, Ranked: true})
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if out.Changes[0].Kind != "post" {
		t.Errorf("ranked Changes[0].Kind = %q, want post", out.Changes[0].Kind)
	}
}

func TestShow_MissingID(t *testing.T) {
	database := testDB(t)

	_, err := Show(database, ShowInput{})
	cerr, ok := err.(*errors.ChronicleError)
	if !ok || cerr.Code != errors.ErrInvalidRequest {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestShow_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := Show(database, ShowInput{ID: "01MISSING"})
	cerr, ok := err.(*errors.ChronicleError)
	if !ok || cerr.Code != errors.ErrNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
