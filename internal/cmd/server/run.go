// Package serverrun exposes the shared Run entrypoint used by the CLI to
// start a tidemark node that creates its datasets and issues tickets.
package serverrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	replcmd "github.com/seaward/tidemark/internal/cmd/repl"
	cfgpkg "github.com/seaward/tidemark/internal/config"
	"github.com/seaward/tidemark/internal/model"
	"github.com/seaward/tidemark/internal/registry"
	"github.com/seaward/tidemark/internal/runtime"
	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
	Logger  logpkg.Logger
	// SeedFolders creates that many starter folders. Zero means none.
	SeedFolders int
	// SeedDir loads every regular file under the directory into the
	// "resource" dataset. Empty means no file seeding.
	SeedDir string
	In      io.Reader
	Out     io.Writer
}

// DefaultSeedFolders is the number of starter folders a fresh server
// creates when the caller does not say otherwise.
const DefaultSeedFolders = 9

// Run opens the node, prints the shareable ticket line, and hands control
// to the interactive console. Blocks until quit or ctx cancellation.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.Default().With(logpkg.Component("server"))
	}

	rt, err := runtime.Open(runtime.Options{
		DataDir: filepath.Join(opts.DataDir, "store"),
		Fsync:   opts.Fsync,
		Config:  opts.Config,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	reg, err := registry.Open(sctx, rt, nil, logger)
	if err != nil {
		reg.Shutdown()
		return err
	}
	defer reg.Shutdown()

	logger.Info("node started",
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("author", rt.Author().ID()),
	)
	fmt.Fprintf(opts.Out, "share this ticket line with peers:\n%s\n", reg.TicketLine(opts.Config))

	for i := 1; i <= opts.SeedFolders; i++ {
		id := fmt.Sprintf("folder-%d", i)
		f := model.Folder{ID: id, Name: fmt.Sprintf("Folder %d", i)}
		if err := reg.Folders().Insert(sctx, id, f); err != nil {
			return fmt.Errorf("seed folder %s: %w", id, err)
		}
	}
	if opts.SeedFolders > 0 {
		fmt.Fprintf(opts.Out, "seeded %d folder(s)\n", opts.SeedFolders)
	}
	if opts.SeedDir != "" {
		resources, err := model.LoadDir(opts.SeedDir)
		if err != nil {
			return fmt.Errorf("seed dir: %w", err)
		}
		store := reg.Resources("resource")
		if store == nil {
			return fmt.Errorf("seed dir: no resource dataset configured")
		}
		for _, res := range resources {
			if err := store.Insert(sctx, res.ID, res); err != nil {
				return fmt.Errorf("seed resource %s: %w", res.Name, err)
			}
		}
		fmt.Fprintf(opts.Out, "seeded %d resource(s) from %s\n", len(resources), opts.SeedDir)
	}

	r := &replcmd.Repl{Registry: reg, Config: opts.Config, Logger: logger, In: opts.In, Out: opts.Out}
	return r.Run(sctx)
}
