package doclog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SubscribeOptions controls the starting position and filtering of a
// journal subscription.
type SubscribeOptions struct {
	// From is "earliest" (default) or "latest".
	From string
	// Filter is an optional CEL expression evaluated per event. When
	// empty, all events are delivered.
	Filter string
	// Buffer is the delivery channel capacity. Default 1024.
	Buffer int
}

// Subscription delivers journal events in per-dataset order. The events
// channel is closed when the subscription stops.
type Subscription struct {
	ch     chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// Events returns the ordered event stream.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Close stops the subscription and waits for its goroutine to exit.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Subscribe starts a goroutine tailing the journal from the resolved
// start position. An invalid filter expression fails the subscription
// before any goroutine is started.
func (l *Log) Subscribe(ctx context.Context, opts SubscribeOptions) (*Subscription, error) {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("doclog: subscribe filter: %w", err)
	}
	switch opts.From {
	case "", "earliest", "latest":
	default:
		return nil, fmt.Errorf("doclog: subscribe from %q; use earliest|latest", opts.From)
	}
	start := uint64(1)
	if opts.From == "latest" {
		start = l.LastSeq() + 1
	}
	buf := opts.Buffer
	if buf <= 0 {
		buf = 1024
	}

	sctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ch:     make(chan Event, buf),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(sub.done)
		defer close(sub.ch)
		next := start
		for {
			if sctx.Err() != nil {
				return
			}
			items := l.readJournal(next, 128)
			if len(items) == 0 {
				if !l.WaitForAppend(50 * time.Millisecond) {
					if sctx.Err() != nil {
						return
					}
				}
				continue
			}
			for _, it := range items {
				var env envelope
				if err := json.Unmarshal(it.Payload, &env); err != nil {
					continue
				}
				if !filter.Eval(env, it.Seq, it.TsMs) {
					continue
				}
				ev, err := envelopeToEvent(env)
				if err != nil {
					continue
				}
				select {
				case sub.ch <- ev:
				case <-sctx.Done():
					return
				}
			}
			next = items[len(items)-1].Seq + 1
		}
	}()
	return sub, nil
}
