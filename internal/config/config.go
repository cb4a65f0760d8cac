package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir is the root directory for persistent state.
	DataDir string `json:"dataDir"`
	// Datasets is the ordered set of logical datasets the registry opens.
	Datasets []string `json:"datasets"`
	// ExcludedDatasets are datasets whose remote inserts are not counted
	// toward sync progress.
	ExcludedDatasets []string `json:"excludedDatasets"`
	// NotifyBuffer is the capacity of each session's ready-key outlet.
	// A full outlet blocks the session's event loop (backpressure).
	NotifyBuffer int `json:"notifyBuffer"`
	// SubscribeBuffer is the buffered event capacity per log subscription.
	SubscribeBuffer int `json:"subscribeBuffer"`
	// MaxEntityBytes is the hard upper bound on a serialized entity.
	MaxEntityBytes int64 `json:"maxEntityBytes"`
	// MissingLabel names entities whose content cannot be resolved locally.
	MissingLabel string `json:"missingLabel"`
}

// DatasetNames is the fixed set of logical datasets, in ticket order.
var DatasetNames = []string{"folder", "node", "resource", "resource1", "resource2", "resource3"}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Datasets:         append([]string(nil), DatasetNames...),
		ExcludedDatasets: []string{"resource"},
		NotifyBuffer:     1000,
		SubscribeBuffer:  1024,
		MaxEntityBytes:   150 << 20, // 150 MiB
		MissingLabel:     "missing file",
	}
}

// Load reads configuration from a JSON file. An empty path returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Excluded reports whether sync progress accounting is disabled for dataset.
func (c Config) Excluded(dataset string) bool {
	for _, d := range c.ExcludedDatasets {
		if d == dataset {
			return true
		}
	}
	return false
}

// DefaultDataDir returns the default data directory based on the host OS,
// falling back to a dotdir in the user's home directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tidemark")
	}
	if isDir(filepath.Join(homeDir, "Library")) {
		return filepath.Join(homeDir, "Library", "Application Support", "Tidemark")
	}
	if isDir(filepath.Join(homeDir, "AppData")) {
		return filepath.Join(homeDir, "AppData", "Local", "Tidemark")
	}
	return filepath.Join(homeDir, ".tidemark")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
