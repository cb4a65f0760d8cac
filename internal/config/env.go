package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays TIDEMARK_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("TIDEMARK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TIDEMARK_EXCLUDED_DATASETS"); v != "" {
		cfg.ExcludedDatasets = splitList(v)
	}
	if v := os.Getenv("TIDEMARK_NOTIFY_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifyBuffer = n
		}
	}
	if v := os.Getenv("TIDEMARK_SUB_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SubscribeBuffer = n
		}
	}
	if v := os.Getenv("TIDEMARK_MAX_ENTITY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxEntityBytes = n
		}
	}
	if v := os.Getenv("TIDEMARK_MISSING_LABEL"); v != "" {
		cfg.MissingLabel = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
