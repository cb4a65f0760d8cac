// Package syncer tracks remote-synchronization progress for one dataset.
//
// A Session consumes its dataset's ordered replication event stream and
// maintains the set of content still to be fetched (pending index) along
// with four atomic progress counters: the lifetime backlog observed
// before initial sync converged, and the currently outstanding subset.
// Resolved logical keys are pushed to a bounded notification outlet so
// consumers know exactly which items just became available.
//
// The accounting is deliberately frozen once the all-clear arrives:
// counters measure the one-time catch-up backlog, not steady-state
// incremental traffic. The pending index keeps tracking resolutions after
// the freeze so it never leaks entries.
package syncer
