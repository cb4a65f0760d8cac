// Package config provides loading and environment overlay for tidemark
// configuration. It exposes a Default() baseline, a JSON file loader, and
// a TIDEMARK_* environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/tidemark.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
