package doclog

import (
	"encoding/json"
	"fmt"
)

// Kind names a journal event variant.
type Kind string

const (
	KindRemoteInsert  Kind = "remote-insert"
	KindLocalInsert   Kind = "local-insert"
	KindContentReady  Kind = "content-ready"
	KindAllClear      Kind = "all-clear"
	KindPeerJoined    Kind = "peer-joined"
	KindPeerLeft      Kind = "peer-left"
	KindRoundComplete Kind = "round-complete"
)

// Entry is the latest revision of a logical key in a dataset.
type Entry struct {
	Key         []byte `json:"key"`
	Digest      string `json:"digest"`
	Size        uint64 `json:"size"`
	Author      string `json:"author"`
	UpdatedAtMs int64  `json:"updatedAtMs"`
}

// Event is the closed set of replication events a subscription delivers.
// New variants require touching every dispatch site, which is the point.
type Event interface {
	Kind() Kind
}

// RemoteInsert reports an entry revision learned from a peer. Content for
// Digest may not be locally available yet.
type RemoteInsert struct {
	Digest  string
	Size    uint64
	Key     string
	Dataset string
	Peer    string
}

// LocalInsert reports an entry revision written by this node.
type LocalInsert struct {
	Entry Entry
}

// ContentReady reports that the bytes for Digest became locally available.
type ContentReady struct {
	Digest string
}

// AllClear marks that every piece of content referenced at initial sync
// time has been retrieved locally.
type AllClear struct{}

// PeerJoined and PeerLeft surface gossip membership changes.
type PeerJoined struct{ Peer string }
type PeerLeft struct{ Peer string }

// RoundComplete marks the end of a metadata reconciliation pass with
// peers, independent of content retrieval.
type RoundComplete struct {
	Origin string
}

func (RemoteInsert) Kind() Kind  { return KindRemoteInsert }
func (LocalInsert) Kind() Kind   { return KindLocalInsert }
func (ContentReady) Kind() Kind  { return KindContentReady }
func (AllClear) Kind() Kind      { return KindAllClear }
func (PeerJoined) Kind() Kind    { return KindPeerJoined }
func (PeerLeft) Kind() Kind      { return KindPeerLeft }
func (RoundComplete) Kind() Kind { return KindRoundComplete }

// envelope is the JSON wire form of all event variants.
type envelope struct {
	EventKind Kind   `json:"kind"`
	Digest    string `json:"digest,omitempty"`
	Size      uint64 `json:"size,omitempty"`
	Key       string `json:"key,omitempty"`
	Dataset   string `json:"dataset,omitempty"`
	Peer      string `json:"peer,omitempty"`
	Origin    string `json:"origin,omitempty"`
	Entry     *Entry `json:"entry,omitempty"`
}

func encodeEvent(ev Event) ([]byte, error) {
	var env envelope
	switch e := ev.(type) {
	case RemoteInsert:
		env = envelope{EventKind: KindRemoteInsert, Digest: e.Digest, Size: e.Size, Key: e.Key, Dataset: e.Dataset, Peer: e.Peer}
	case LocalInsert:
		entry := e.Entry
		env = envelope{EventKind: KindLocalInsert, Entry: &entry}
	case ContentReady:
		env = envelope{EventKind: KindContentReady, Digest: e.Digest}
	case AllClear:
		env = envelope{EventKind: KindAllClear}
	case PeerJoined:
		env = envelope{EventKind: KindPeerJoined, Peer: e.Peer}
	case PeerLeft:
		env = envelope{EventKind: KindPeerLeft, Peer: e.Peer}
	case RoundComplete:
		env = envelope{EventKind: KindRoundComplete, Origin: e.Origin}
	default:
		return nil, fmt.Errorf("doclog: unknown event %T", ev)
	}
	return json.Marshal(env)
}

func decodeEvent(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("doclog: decode event: %w", err)
	}
	return envelopeToEvent(env)
}

func envelopeToEvent(env envelope) (Event, error) {
	switch env.EventKind {
	case KindRemoteInsert:
		return RemoteInsert{Digest: env.Digest, Size: env.Size, Key: env.Key, Dataset: env.Dataset, Peer: env.Peer}, nil
	case KindLocalInsert:
		if env.Entry == nil {
			return nil, fmt.Errorf("doclog: local-insert event without entry")
		}
		return LocalInsert{Entry: *env.Entry}, nil
	case KindContentReady:
		return ContentReady{Digest: env.Digest}, nil
	case KindAllClear:
		return AllClear{}, nil
	case KindPeerJoined:
		return PeerJoined{Peer: env.Peer}, nil
	case KindPeerLeft:
		return PeerLeft{Peer: env.Peer}, nil
	case KindRoundComplete:
		return RoundComplete{Origin: env.Origin}, nil
	}
	return nil, fmt.Errorf("doclog: unknown event kind %q", env.EventKind)
}
