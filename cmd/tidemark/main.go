package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clientrun "github.com/seaward/tidemark/internal/cmd/client"
	serverrun "github.com/seaward/tidemark/internal/cmd/server"
	cfgpkg "github.com/seaward/tidemark/internal/config"
	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

func main() {
	var (
		dataDir    string
		configPath string
		fsyncMode  string
		logLevel   string
		logFormat  string
	)

	rootCmd := &cobra.Command{
		Use:   "tidemark",
		Short: "tidemark shares keyed datasets between peers and tracks sync progress",
		Long: "tidemark is a single-binary dataset sharing tool. One side starts a " +
			"server that creates the datasets and prints a ticket line; the other " +
			"side joins with that line. Both get an interactive console.",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: OS application data directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&fsyncMode, "fsync", "always", "Fsync mode: always|interval|never")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("TIDEMARK_LOG_LEVEL"), "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", os.Getenv("TIDEMARK_LOG_FORMAT"), "Log format: text|json")

	setup := func() (cfgpkg.Config, pebblestore.FsyncMode, logpkg.Logger, error) {
		cfg, err := cfgpkg.Load(configPath)
		if err != nil {
			return cfgpkg.Config{}, 0, nil, err
		}
		cfgpkg.FromEnv(&cfg)
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if cfg.DataDir == "" {
			cfg.DataDir = cfgpkg.DefaultDataDir()
		}
		var mode pebblestore.FsyncMode
		switch fsyncMode {
		case "always":
			mode = pebblestore.FsyncModeAlways
		case "interval":
			mode = pebblestore.FsyncModeInterval
		case "never":
			mode = pebblestore.FsyncModeNever
		default:
			return cfgpkg.Config{}, 0, nil, fmt.Errorf("invalid --fsync; use always|interval|never")
		}
		level := logpkg.InfoLevel
		if logLevel != "" {
			parsed, err := logpkg.ParseLevel(logLevel)
			if err != nil {
				return cfgpkg.Config{}, 0, nil, err
			}
			level = parsed
		}
		logger := logpkg.New(logpkg.Options{Level: level, Format: logFormat})
		return cfg, mode, logger, nil
	}

	var (
		seedFolders int
		seedDir     string
	)
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Create the datasets, print the ticket line, and open a console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mode, logger, err := setup()
			if err != nil {
				return err
			}
			return serverrun.Run(context.Background(), serverrun.Options{
				DataDir:     cfg.DataDir,
				Fsync:       mode,
				Config:      cfg,
				Logger:      logger,
				SeedFolders: seedFolders,
				SeedDir:     seedDir,
			})
		},
	}
	serverCmd.Flags().IntVar(&seedFolders, "seed-folders", serverrun.DefaultSeedFolders, "Create this many starter folders on start")
	serverCmd.Flags().StringVar(&seedDir, "seed-dir", "", "Load every file in this directory into the resource dataset")
	rootCmd.AddCommand(serverCmd)

	clientCmd := &cobra.Command{
		Use:   "client TICKET...",
		Short: "Join datasets from a pasted ticket line and open a console",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mode, logger, err := setup()
			if err != nil {
				return err
			}
			return clientrun.Run(context.Background(), clientrun.Options{
				DataDir: cfg.DataDir,
				Fsync:   mode,
				Config:  cfg,
				Logger:  logger,
				Tickets: args,
			})
		},
	}
	rootCmd.AddCommand(clientCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
