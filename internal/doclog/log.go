package doclog

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

// ErrNotFound is returned when a logical key has no entry.
var ErrNotFound = errors.New("doclog: entry not found")

// Log is the per-dataset document log: latest entry revisions plus an
// ordered journal of replication events.
type Log struct {
	db      *pebblestore.DB
	dataset string
	id      string

	mu       sync.Mutex
	lastSeq  uint64
	notifyCh chan struct{}
}

// Open initializes a Log for the dataset and loads the last journal
// sequence from metadata if present.
func Open(db *pebblestore.DB, dataset, id string) (*Log, error) {
	if id == "" {
		return nil, errors.New("doclog: dataset id is required")
	}
	l := &Log{db: db, dataset: dataset, id: id, notifyCh: make(chan struct{})}
	meta, err := db.Get(KeyJournalMeta(id))
	if err == nil && len(meta) >= 8 {
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return l, nil
}

// Dataset returns the logical dataset name.
func (l *Log) Dataset() string { return l.dataset }

// ID returns the dataset identifier.
func (l *Log) ID() string { return l.id }

// LastSeq returns the sequence of the most recent journal event.
func (l *Log) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeq
}

// appendEvent persists the event and optional entry revision as one atomic
// batch, then wakes journal waiters. Returns the assigned sequence.
func (l *Log) appendEvent(ctx context.Context, ev Event, entry *Entry) (uint64, error) {
	payload, err := encodeEvent(ev)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	seq := l.lastSeq + 1
	rec := encodeRecord(time.Now().UnixMilli(), payload)
	if err := b.Set(KeyJournal(l.id, seq), rec, nil); err != nil {
		return 0, err
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := b.Set(KeyJournalMeta(l.id), meta[:], nil); err != nil {
		return 0, err
	}
	if entry != nil {
		eb, err := json.Marshal(entry)
		if err != nil {
			return 0, err
		}
		if err := b.Set(KeyEntry(l.id, entry.Key), eb, nil); err != nil {
			return 0, err
		}
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return 0, err
	}
	l.lastSeq = seq
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	return seq, nil
}

// SetEntry records a local write under key and emits LocalInsert.
func (l *Log) SetEntry(ctx context.Context, key []byte, digest string, size uint64, author string) error {
	entry := Entry{
		Key:         append([]byte(nil), key...),
		Digest:      digest,
		Size:        size,
		Author:      author,
		UpdatedAtMs: time.Now().UnixMilli(),
	}
	_, err := l.appendEvent(ctx, LocalInsert{Entry: entry}, &entry)
	return err
}

// ApplyRemote records an entry revision received from a peer and emits
// RemoteInsert. A zero Size marks a deletion tombstone; the revision is
// still recorded so the key reflects its latest state.
func (l *Log) ApplyRemote(ctx context.Context, entry Entry, peer string) error {
	if entry.UpdatedAtMs == 0 {
		entry.UpdatedAtMs = time.Now().UnixMilli()
	}
	ev := RemoteInsert{
		Digest:  entry.Digest,
		Size:    entry.Size,
		Key:     string(entry.Key),
		Dataset: l.dataset,
		Peer:    peer,
	}
	_, err := l.appendEvent(ctx, ev, &entry)
	return err
}

// MarkContentReady emits ContentReady for a digest whose bytes arrived.
func (l *Log) MarkContentReady(ctx context.Context, digest string) error {
	_, err := l.appendEvent(ctx, ContentReady{Digest: digest}, nil)
	return err
}

// MarkRoundComplete emits RoundComplete for a finished metadata pass.
func (l *Log) MarkRoundComplete(ctx context.Context, origin string) error {
	_, err := l.appendEvent(ctx, RoundComplete{Origin: origin}, nil)
	return err
}

// MarkAllClear emits AllClear once initial content retrieval converged.
func (l *Log) MarkAllClear(ctx context.Context) error {
	_, err := l.appendEvent(ctx, AllClear{}, nil)
	return err
}

// NotePeerJoined emits PeerJoined.
func (l *Log) NotePeerJoined(ctx context.Context, peer string) error {
	_, err := l.appendEvent(ctx, PeerJoined{Peer: peer}, nil)
	return err
}

// NotePeerLeft emits PeerLeft.
func (l *Log) NotePeerLeft(ctx context.Context, peer string) error {
	_, err := l.appendEvent(ctx, PeerLeft{Peer: peer}, nil)
	return err
}

// GetEntry returns the latest revision for key.
func (l *Log) GetEntry(key []byte) (Entry, error) {
	b, err := l.db.Get(KeyEntry(l.id, key))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, fmt.Errorf("doclog: corrupt entry: %w", err)
	}
	return e, nil
}

// Entries returns the latest revision of every logical key, in key order.
func (l *Log) Entries() ([]Entry, error) {
	prefix := KeyEntryPrefix(l.id)
	it, err := l.db.PrefixIter(prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []Entry
	for ok := it.First(); ok; ok = it.Next() {
		var e Entry
		if err := json.Unmarshal(it.Value(), &e); err != nil {
			return nil, fmt.Errorf("doclog: corrupt entry at %q: %w", it.Key(), err)
		}
		out = append(out, e)
	}
	return out, nil
}

// journalItem is one decoded journal position.
type journalItem struct {
	Seq     uint64
	TsMs    int64
	Payload []byte
}

// readJournal returns up to limit journal items starting at seq (inclusive).
func (l *Log) readJournal(start uint64, limit int) []journalItem {
	low := KeyJournal(l.id, start)
	hi := KeyJournal(l.id, ^uint64(0))
	it, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: append(hi, 0x00)})
	if err != nil {
		return nil
	}
	defer it.Close()
	items := make([]journalItem, 0, limit)
	for ok := it.First(); ok && (limit == 0 || len(items) < limit); ok = it.Next() {
		k := it.Key()
		seq := binary.BigEndian.Uint64(k[len(k)-8:])
		ts, payload, err := decodeRecord(it.Value())
		if err != nil {
			continue
		}
		items = append(items, journalItem{Seq: seq, TsMs: ts, Payload: payload})
	}
	return items
}

// WaitForAppend blocks until a new event is appended or timeout elapses.
// Returns true when woken by an append.
func (l *Log) WaitForAppend(timeout time.Duration) bool {
	l.mu.Lock()
	ch := l.notifyCh
	l.mu.Unlock()
	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
