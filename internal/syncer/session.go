package syncer

import (
	"context"
	"sync/atomic"

	"github.com/seaward/tidemark/internal/doclog"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

// Options configures a Session.
type Options struct {
	// Dataset is the logical dataset name this session accounts for.
	Dataset string
	// Excluded disables progress accounting for this dataset; events are
	// still consumed so the stream drains, but nothing is tracked.
	Excluded bool
	// NotifyBuffer is the ready-key outlet capacity. Default 1000. A full
	// outlet blocks event processing until a consumer drains it.
	NotifyBuffer int
	// Logger receives per-event diagnostics.
	Logger logpkg.Logger
}

// Session tracks synchronization progress for one dataset. One background
// goroutine consumes the dataset's event subscription; it retires itself
// on the first all-clear and the session stays queryable afterwards.
type Session struct {
	dataset  string
	excluded bool
	logger   logpkg.Logger

	pending  *pendingIndex
	counters Counters

	metadataCaughtUp atomic.Bool
	allMaterialized  atomic.Bool

	notifyCh chan string
	cancel   context.CancelFunc
	done     chan struct{}
}

// Start builds a Session over sub and launches its consumer goroutine.
// The session owns sub and closes it when the goroutine exits.
func Start(ctx context.Context, sub *doclog.Subscription, opts Options) *Session {
	buf := opts.NotifyBuffer
	if buf <= 0 {
		buf = 1000
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.Default().With(logpkg.Component("syncer"))
	}
	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		dataset:  opts.Dataset,
		excluded: opts.Excluded,
		logger:   logger.With(logpkg.Str("dataset", opts.Dataset)),
		pending:  newPendingIndex(),
		notifyCh: make(chan string, buf),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run(sctx, sub)
	return s
}

func (s *Session) run(ctx context.Context, sub *doclog.Subscription) {
	defer close(s.done)
	defer close(s.notifyCh)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			s.handle(ctx, ev)
		}
	}
}

// handle dispatches one event. The set of variants is closed; a new one
// must be wired here explicitly.
func (s *Session) handle(ctx context.Context, ev doclog.Event) {
	switch e := ev.(type) {
	case doclog.RemoteInsert:
		s.onRemoteInsert(e)
	case doclog.LocalInsert:
		// Locally produced content is already materialized.
		s.logger.Debug("local insert", logpkg.Str("key", string(e.Entry.Key)))
	case doclog.ContentReady:
		s.onContentReady(ctx, e)
	case doclog.AllClear:
		s.onAllClear()
	case doclog.RoundComplete:
		s.metadataCaughtUp.Store(true)
		s.logger.Debug("metadata round complete", logpkg.Str("origin", e.Origin))
	case doclog.PeerJoined:
		s.logger.Info("peer joined", logpkg.Str("peer", e.Peer))
	case doclog.PeerLeft:
		s.logger.Info("peer left", logpkg.Str("peer", e.Peer))
	default:
		s.logger.Warn("unhandled event", logpkg.Str("kind", string(ev.Kind())))
	}
}

func (s *Session) onRemoteInsert(e doclog.RemoteInsert) {
	if s.excluded {
		return
	}
	// Size zero is a deletion tombstone; nothing to fetch.
	if e.Size == 0 {
		s.logger.Debug("tombstone", logpkg.Str("key", e.Key))
		return
	}
	item := PendingItem{Digest: e.Digest, Key: e.Key, Size: e.Size, Dataset: e.Dataset}
	// First writer wins: a replayed or duplicate insert for an unresolved
	// digest must not double-count.
	if !s.pending.insert(item) {
		return
	}
	if !s.allMaterialized.Load() {
		s.counters.addPending(e.Size)
	}
}

func (s *Session) onContentReady(ctx context.Context, e doclog.ContentReady) {
	item, ok := s.pending.remove(e.Digest)
	if !ok {
		// Content resolved before or without a recorded metadata entry,
		// or a stale duplicate signal. Benign.
		s.logger.Debug("content ready for unindexed digest", logpkg.Str("digest", e.Digest))
		return
	}
	if s.allMaterialized.Load() {
		// Index hygiene only; accounting is frozen after the all-clear.
		return
	}
	// Settle the counters before the outlet send: a cancellation during
	// backpressure may drop the notification, but the queue counters must
	// still agree with the index.
	s.counters.resolvePending(item.Size)
	select {
	case s.notifyCh <- item.Key:
	case <-ctx.Done():
	}
}

func (s *Session) onAllClear() {
	prev := s.allMaterialized.Swap(true)
	if prev {
		return
	}
	s.logger.Info("initial content sync complete",
		logpkg.Uint64("lifetime_count", s.counters.LifetimePendingCount()),
		logpkg.Uint64("lifetime_bytes", s.counters.LifetimePendingBytes()),
	)
	// The consumer's only job was driving this convergence.
	s.cancel()
}

// Dataset returns the logical dataset name.
func (s *Session) Dataset() string { return s.dataset }

// MetadataCaughtUp reports whether the log finished its initial metadata
// reconciliation pass with peers.
func (s *Session) MetadataCaughtUp() bool { return s.metadataCaughtUp.Load() }

// AllContentMaterialized reports whether every piece of initially
// referenced content has been retrieved.
func (s *Session) AllContentMaterialized() bool { return s.allMaterialized.Load() }

// LifetimePendingCount returns the total pre-convergence backlog items.
func (s *Session) LifetimePendingCount() uint64 { return s.counters.LifetimePendingCount() }

// LifetimePendingBytes returns the total pre-convergence backlog bytes.
func (s *Session) LifetimePendingBytes() uint64 { return s.counters.LifetimePendingBytes() }

// QueuePendingCount returns the currently outstanding item count.
func (s *Session) QueuePendingCount() uint64 { return s.counters.QueuePendingCount() }

// QueuePendingBytes returns the currently outstanding byte count.
func (s *Session) QueuePendingBytes() uint64 { return s.counters.QueuePendingBytes() }

// PendingLen returns the number of digests currently indexed.
func (s *Session) PendingLen() int { return s.pending.Len() }

// Notifications is the drainable stream of logical keys that just became
// available. It is closed when the consumer goroutine exits.
func (s *Session) Notifications() <-chan string { return s.notifyCh }

// Done is closed when the consumer goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Stop cancels the consumer goroutine and waits for it to exit. Safe to
// call at any time, including after the session retired itself.
func (s *Session) Stop() {
	s.cancel()
	<-s.done
}
