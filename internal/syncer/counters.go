package syncer

import "sync/atomic"

// Counters hold the four progress measures for a session. Lifetime
// counters only grow; queue counters grow and shrink back toward zero.
// All reads are lock-free and never observe torn values.
type Counters struct {
	lifetimeCount atomic.Uint64
	lifetimeBytes atomic.Uint64
	queueCount    atomic.Uint64
	queueBytes    atomic.Uint64
}

func (c *Counters) addPending(size uint64) {
	c.lifetimeCount.Add(1)
	c.lifetimeBytes.Add(size)
	c.queueCount.Add(1)
	c.queueBytes.Add(size)
}

func (c *Counters) resolvePending(size uint64) {
	c.queueCount.Add(^uint64(0))
	c.queueBytes.Add(^(size - 1))
}

// LifetimePendingCount returns the total backlog items ever observed
// before initial sync converged.
func (c *Counters) LifetimePendingCount() uint64 { return c.lifetimeCount.Load() }

// LifetimePendingBytes returns the total backlog bytes ever observed
// before initial sync converged.
func (c *Counters) LifetimePendingBytes() uint64 { return c.lifetimeBytes.Load() }

// QueuePendingCount returns the currently outstanding item count.
func (c *Counters) QueuePendingCount() uint64 { return c.queueCount.Load() }

// QueuePendingBytes returns the currently outstanding byte count.
func (c *Counters) QueuePendingBytes() uint64 { return c.queueBytes.Load() }
