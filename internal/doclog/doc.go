// Package doclog implements the per-dataset replicated document log
// surface the sync core consumes: a keyed table of latest entry revisions
// plus an ordered journal of replication events, both persisted in Pebble.
//
// Every mutation appends exactly one event to the journal; subscribers
// tail the journal in order through Subscribe, optionally narrowed by a
// CEL filter expression. Events form a closed set (see Event) so callers
// dispatch with an exhaustive type switch.
//
// The log records what replication did; it does not replicate. Peer
// exchange, conflict resolution, and content retrieval happen elsewhere
// and report in through ApplyRemote, MarkContentReady, and the sync
// lifecycle markers.
package doclog
