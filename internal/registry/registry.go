// Package registry owns the fixed set of named datasets and their sync
// sessions. Opening the registry opens or joins every dataset, builds its
// entity facade, and starts exactly one sync session per dataset.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	cfgpkg "github.com/seaward/tidemark/internal/config"
	"github.com/seaward/tidemark/internal/doclog"
	"github.com/seaward/tidemark/internal/entity"
	"github.com/seaward/tidemark/internal/model"
	"github.com/seaward/tidemark/internal/runtime"
	"github.com/seaward/tidemark/internal/syncer"
	"github.com/seaward/tidemark/internal/ticket"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

// Handle bundles one dataset's log, session, and encoded ticket.
type Handle struct {
	Name    string
	ID      string
	Log     *doclog.Log
	Session *syncer.Session
	Ticket  string
}

// Registry holds every opened dataset, indexed by name. Sessions are
// fully isolated from each other; the registry is their sole owner.
type Registry struct {
	logger  logpkg.Logger
	handles map[string]*Handle

	folders   *entity.Store[model.Folder]
	nodes     *entity.Store[model.Node]
	resources map[string]*entity.Store[model.Resource]
}

// Open opens or joins every configured dataset. tickets maps dataset
// name to an import ticket string; datasets without one are created
// fresh with a newly issued ticket. Datasets are opened independently:
// on failure the datasets already opened stay open in the returned
// registry and the error names the one that failed — the caller decides
// whether to continue or shut down.
func Open(ctx context.Context, rt *runtime.Runtime, tickets map[string]string, logger logpkg.Logger) (*Registry, error) {
	if logger == nil {
		logger = logpkg.Default().With(logpkg.Component("registry"))
	}
	cfg := rt.Config()
	r := &Registry{
		logger:    logger,
		handles:   make(map[string]*Handle, len(cfg.Datasets)),
		resources: make(map[string]*entity.Store[model.Resource]),
	}
	author := rt.Author().ID()
	label := cfg.MissingLabel
	maxBytes := uint64(cfg.MaxEntityBytes)
	for _, name := range cfg.Datasets {
		h, err := r.openOne(ctx, rt, name, tickets[name])
		if err != nil {
			return r, fmt.Errorf("registry: open dataset %q: %w", name, err)
		}
		r.handles[name] = h
		switch name {
		case "folder":
			r.folders = entity.NewStore[model.Folder](h.Log, rt.Blobs(), model.FolderCodec{MissingLabel: label}, author, h.Ticket, maxBytes)
		case "node":
			r.nodes = entity.NewStore[model.Node](h.Log, rt.Blobs(), model.NodeCodec{MissingLabel: label}, author, h.Ticket, maxBytes)
		default:
			r.resources[name] = entity.NewStore[model.Resource](h.Log, rt.Blobs(), model.ResourceCodec{MissingLabel: label}, author, h.Ticket, maxBytes)
		}
	}
	return r, nil
}

func (r *Registry) openOne(ctx context.Context, rt *runtime.Runtime, name, importTicket string) (*Handle, error) {
	id := ""
	if importTicket != "" {
		t, err := ticket.Parse(importTicket)
		if err != nil {
			return nil, err
		}
		if t.Dataset != name {
			return nil, fmt.Errorf("ticket is for dataset %q, not %q", t.Dataset, name)
		}
		id = t.ID
	} else {
		id = uuid.NewString()
	}
	meta, err := rt.EnsureDataset(name, id)
	if err != nil {
		return nil, err
	}
	// A dataset already bound locally keeps its id; re-encode so the
	// ticket always names the effective one.
	tk, err := ticket.Ticket{Dataset: name, ID: meta.ID}.Encode()
	if err != nil {
		return nil, err
	}
	l, err := rt.OpenLog(name, meta.ID)
	if err != nil {
		return nil, err
	}
	sub, err := l.Subscribe(ctx, doclog.SubscribeOptions{From: "earliest", Buffer: rt.Config().SubscribeBuffer})
	if err != nil {
		// No subscription means no session for this dataset.
		return nil, err
	}
	cfg := rt.Config()
	sess := syncer.Start(ctx, sub, syncer.Options{
		Dataset:      name,
		Excluded:     cfg.Excluded(name),
		NotifyBuffer: cfg.NotifyBuffer,
		Logger:       r.logger,
	})
	r.logger.Info("dataset opened",
		logpkg.Str("dataset", name),
		logpkg.Str("id", meta.ID),
		logpkg.Bool("joined", importTicket != ""),
	)
	return &Handle{Name: name, ID: meta.ID, Log: l, Session: sess, Ticket: tk}, nil
}

// Folders returns the folder dataset facade.
func (r *Registry) Folders() *entity.Store[model.Folder] { return r.folders }

// Nodes returns the node dataset facade.
func (r *Registry) Nodes() *entity.Store[model.Node] { return r.nodes }

// Resources returns the facade for a resource dataset by name, or nil.
func (r *Registry) Resources(name string) *entity.Store[model.Resource] { return r.resources[name] }

// Handle returns the handle for a dataset by name, or nil.
func (r *Registry) Handle(name string) *Handle { return r.handles[name] }

// Session returns the sync session for a dataset by name, or nil.
func (r *Registry) Session(name string) *syncer.Session {
	if h := r.handles[name]; h != nil {
		return h.Session
	}
	return nil
}

// Names returns the opened dataset names in configured order.
func (r *Registry) Names(cfg cfgpkg.Config) []string {
	out := make([]string, 0, len(cfg.Datasets))
	for _, name := range cfg.Datasets {
		if _, ok := r.handles[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// TicketLine returns every dataset's ticket joined by single spaces, in
// configured order. The line is what one side pastes to the other.
func (r *Registry) TicketLine(cfg cfgpkg.Config) string {
	parts := make([]string, 0, len(cfg.Datasets))
	for _, name := range cfg.Datasets {
		if h, ok := r.handles[name]; ok && h.Ticket != "" {
			parts = append(parts, h.Ticket)
		}
	}
	return strings.Join(parts, " ")
}

// SessionStatus is one row of the progress report.
type SessionStatus struct {
	Dataset                string
	MetadataCaughtUp       bool
	AllContentMaterialized bool
	LifetimePendingCount   uint64
	LifetimePendingBytes   uint64
	QueuePendingCount      uint64
	QueuePendingBytes      uint64
}

// Status reports every session's flags and counters in configured order.
func (r *Registry) Status(cfg cfgpkg.Config) []SessionStatus {
	out := make([]SessionStatus, 0, len(cfg.Datasets))
	for _, name := range cfg.Datasets {
		h, ok := r.handles[name]
		if !ok {
			continue
		}
		s := h.Session
		out = append(out, SessionStatus{
			Dataset:                name,
			MetadataCaughtUp:       s.MetadataCaughtUp(),
			AllContentMaterialized: s.AllContentMaterialized(),
			LifetimePendingCount:   s.LifetimePendingCount(),
			LifetimePendingBytes:   s.LifetimePendingBytes(),
			QueuePendingCount:      s.QueuePendingCount(),
			QueuePendingBytes:      s.QueuePendingBytes(),
		})
	}
	return out
}

// Shutdown stops every session still running. Best-effort and idempotent.
func (r *Registry) Shutdown() {
	for _, h := range r.handles {
		h.Session.Stop()
	}
}
