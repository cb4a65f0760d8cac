package runtime

import (
	"context"
	"errors"

	"github.com/seaward/tidemark/internal/blob"
	cfgpkg "github.com/seaward/tidemark/internal/config"
	"github.com/seaward/tidemark/internal/dataset"
	"github.com/seaward/tidemark/internal/doclog"
	"github.com/seaward/tidemark/internal/identity"
	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
}

// Runtime wires storage, identity, config, and the content store for a
// single-node instance.
type Runtime struct {
	db     *pebblestore.DB
	blobs  *blob.Store
	author *identity.Identity
	config cfgpkg.Config
}

// Open initializes the underlying storage and node identity.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: opts.Fsync})
	if err != nil {
		return nil, err
	}
	author, err := identity.Load(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Runtime{
		db:     db,
		blobs:  blob.New(db),
		author: author,
		config: opts.Config,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// EnsureDataset creates a dataset meta record if absent.
func (r *Runtime) EnsureDataset(name, id string) (dataset.Meta, error) {
	return dataset.Ensure(r.db, name, id)
}

// OpenLog opens the document log for a dataset.
func (r *Runtime) OpenLog(name, id string) (*doclog.Log, error) {
	return doclog.Open(r.db, name, id)
}

// Blobs returns the shared content store.
func (r *Runtime) Blobs() *blob.Store { return r.blobs }

// Author returns the node's persistent write identity.
func (r *Runtime) Author() *identity.Identity { return r.author }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
