package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultLogLimit != 20 {
		t.Errorf("DefaultLogLimit = %d, want 20", cfg.DefaultLogLimit)
	}
	if cfg.ChangelogLimit != 200 {
		t.Errorf("ChangelogLimit = %d, want 200", cfg.ChangelogLimit)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultLogLimit != 20 {
		t.Errorf("DefaultLogLimit = %d, want default 20", cfg.DefaultLogLimit)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"default_log_limit": 50, "disabled_tools": ["journal_purge"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultLogLimit != 50 {
		t.Errorf("DefaultLogLimit = %d, want 50", cfg.DefaultLogLimit)
	}
	if cfg.ChangelogLimit != 200 {
		t.Errorf("ChangelogLimit = %d, want default 200 (unset fields keep defaults)", cfg.ChangelogLimit)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "journal_purge" {
		t.Errorf("DisabledTools = %v, want [journal_purge]", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestMerge(t *testing.T) {
	base := &Config{
		DefaultLogLimit: 20,
		ChangelogLimit:  200,
		AllowedPaths:    []string{"/a"},
		DisabledTools:   []string{"journal_purge"},
	}
	overlay := &Config{
		DefaultLogLimit:  40,
		AllowUnsafePaths: true,
		AllowedPaths:     []string{"/a", "/b"},
	}

	merged := Merge(base, overlay)

	if merged.DefaultLogLimit != 40 {
		t.Errorf("DefaultLogLimit = %d, want overlay 40", merged.DefaultLogLimit)
	}
	if merged.ChangelogLimit != 200 {
		t.Errorf("ChangelogLimit = %d, want base 200", merged.ChangelogLimit)
	}
	if !merged.AllowUnsafePaths {
		t.Error("AllowUnsafePaths = false, want true")
	}
	if len(merged.AllowedPaths) != 2 {
		t.Errorf("AllowedPaths = %v, want deduplicated [/a /b]", merged.AllowedPaths)
	}
	if len(merged.DisabledTools) != 1 {
		t.Errorf("DisabledTools = %v, want [journal_purge]", merged.DisabledTools)
	}
}
