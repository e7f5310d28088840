package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_MissingFile verifies that a nonexistent path falls back to the
// built-in defaults without erroring.
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxClusters != 5 {
		t.Errorf("expected default max_clusters 5, got %d", cfg.Engine.MaxClusters)
	}
	if cfg.Engine.DefaultThreshold != 80 {
		t.Errorf("expected default threshold 80, got %v", cfg.Engine.DefaultThreshold)
	}
}

// TestLoad_Overrides verifies that file values replace defaults while
// unspecified fields keep theirs.
func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "engine:\n  max_clusters: 3\n  default_threshold: 70\n  compute_workers: 2\n  compute_timeout_ms: 5000\nnotify:\n  min_send_spacing_ms: 100\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxClusters != 3 {
		t.Errorf("expected max_clusters 3, got %d", cfg.Engine.MaxClusters)
	}
	if cfg.Notify.MinSendSpacingMs != 100 {
		t.Errorf("expected spacing 100, got %d", cfg.Notify.MinSendSpacingMs)
	}
	if cfg.Notify.Subject == "" {
		t.Error("expected default subject to survive a partial file")
	}
}

// TestLoad_InvalidValues verifies that out-of-range tunables are rejected.
func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "engine:\n  max_clusters: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for max_clusters 0, got nil")
	}
}
