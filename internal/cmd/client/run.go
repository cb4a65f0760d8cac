// Package clientrun exposes the shared Run entrypoint used by the CLI to
// join datasets from a pasted ticket line.
package clientrun

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
	"github.com/seaward/tidemark/internal/registry"
	"github.com/seaward/tidemark/internal/runtime"
	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
	"github.com/seaward/tidemark/internal/ticket"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
	Logger  logpkg.Logger
	// Tickets are the encoded tickets pasted from the other side, one per
	// dataset, in any order.
	Tickets []string
	In      io.Reader
	Out     io.Writer
}

// Run joins the ticketed datasets and hands control to the interactive
// console. Blocks until quit or ctx cancellation.
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
		logger = logpkg.Default().With(logpkg.Component("client"))
	}

	byDataset := make(map[string]string, len(opts.Tickets))
	for _, s := range opts.Tickets {
		t, err := ticket.Parse(s)
		if err != nil {
			return fmt.Errorf("ticket %q: %w", s, err)
		}
		if prev, ok := byDataset[t.Dataset]; ok && prev != s {
			return fmt.Errorf("two tickets for dataset %q", t.Dataset)
		}
		byDataset[t.Dataset] = s
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

	reg, err := registry.Open(sctx, rt, byDataset, logger)
	if err != nil {
		reg.Shutdown()
		return err
	}
	defer reg.Shutdown()

	logger.Info("joined datasets",
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Int("tickets", len(byDataset)),
	)

	r := &replcmd.Repl{Registry: reg, Config: opts.Config, Logger: logger, In: opts.In, Out: opts.Out}
	return r.Run(sctx)
}
