package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.NotifyBuffer != 1000 {
		t.Fatalf("NotifyBuffer = %d", cfg.NotifyBuffer)
	}
	if cfg.MaxEntityBytes != 150<<20 {
		t.Fatalf("MaxEntityBytes = %d", cfg.MaxEntityBytes)
	}
	if len(cfg.Datasets) != 6 {
		t.Fatalf("expected 6 datasets, got %d", len(cfg.Datasets))
	}
	if !cfg.Excluded("resource") {
		t.Fatal("resource should be excluded by default")
	}
	if cfg.Excluded("folder") {
		t.Fatal("folder should not be excluded")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	body := `{"notifyBuffer": 7, "excludedDatasets": ["node"], "missingLabel": "gone"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NotifyBuffer != 7 || cfg.MissingLabel != "gone" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if !cfg.Excluded("node") || cfg.Excluded("resource") {
		t.Fatalf("excluded set not replaced: %v", cfg.ExcludedDatasets)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TIDEMARK_NOTIFY_BUFFER", "42")
	t.Setenv("TIDEMARK_EXCLUDED_DATASETS", "resource, resource1")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.NotifyBuffer != 42 {
		t.Fatalf("NotifyBuffer = %d", cfg.NotifyBuffer)
	}
	if !cfg.Excluded("resource1") {
		t.Fatalf("excluded = %v", cfg.ExcludedDatasets)
	}
}
