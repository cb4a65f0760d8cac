// Package entity provides a generic per-dataset read/write surface over a
// document log and the shared content store. It is independent of sync
// progress bookkeeping: callers read and write entities whether or not the
// dataset has finished catching up.
package entity

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/seaward/tidemark/internal/blob"
	"github.com/seaward/tidemark/internal/doclog"
)

var (
	// ErrInvalidKey means a log entry's key is not valid UTF-8 text.
	ErrInvalidKey = errors.New("entity: key is not valid UTF-8")
	// ErrTooLarge means an encoded entity exceeds the per-write limit.
	ErrTooLarge = errors.New("entity: payload exceeds size limit")
	// ErrNotFound means no live entry exists under the requested key.
	ErrNotFound = errors.New("entity: not found")
)

// Codec is the serialization contract one payload type must satisfy.
// MissingPlaceholder builds a stand-in entity for a key whose content
// cannot be resolved from the store.
type Codec[E any] interface {
	Encode(E) ([]byte, error)
	Decode([]byte) (E, error)
	MissingPlaceholder(key string) E
}

// Store is the facade for one dataset and one payload type.
type Store[E any] struct {
	log      *doclog.Log
	blobs    *blob.Store
	codec    Codec[E]
	author   string
	ticket   string
	maxBytes uint64
}

// NewStore binds a facade to its dataset log, the shared content store,
// and the node's author identity. ticketStr is the encoded invitation
// ticket for the dataset, or empty when none was issued.
func NewStore[E any](log *doclog.Log, blobs *blob.Store, codec Codec[E], author, ticketStr string, maxBytes uint64) *Store[E] {
	return &Store[E]{
		log:      log,
		blobs:    blobs,
		codec:    codec,
		author:   author,
		ticket:   ticketStr,
		maxBytes: maxBytes,
	}
}

// Search enumerates the latest revision of every live key in the dataset.
// An entry whose content is not yet locally available is substituted with
// the codec's placeholder instead of failing the call. A key that is not
// valid text fails the whole call.
func (s *Store[E]) Search() ([]E, error) {
	entries, err := s.log.Entries()
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, len(entries))
	for _, e := range entries {
		if !utf8.Valid(e.Key) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, e.Key)
		}
		// Tombstones are deletions, not listable entities.
		if e.Size == 0 {
			continue
		}
		data, err := s.blobs.Resolve(e.Digest)
		if errors.Is(err, blob.ErrNotFound) {
			out = append(out, s.codec.MissingPlaceholder(string(e.Key)))
			continue
		}
		if err != nil {
			return nil, err
		}
		ent, err := s.codec.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("entity: decode %q: %w", e.Key, err)
		}
		out = append(out, ent)
	}
	return out, nil
}

// Get resolves the entity stored under key. Content not yet available
// locally yields the codec's placeholder, not an error.
func (s *Store[E]) Get(key string) (E, error) {
	var zero E
	e, err := s.log.GetEntry([]byte(key))
	if err != nil {
		if errors.Is(err, doclog.ErrNotFound) {
			return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return zero, err
	}
	if e.Size == 0 {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	data, err := s.blobs.Resolve(e.Digest)
	if errors.Is(err, blob.ErrNotFound) {
		return s.codec.MissingPlaceholder(key), nil
	}
	if err != nil {
		return zero, err
	}
	ent, err := s.codec.Decode(data)
	if err != nil {
		return zero, fmt.Errorf("entity: decode %q: %w", key, err)
	}
	return ent, nil
}

// Insert encodes e and writes it as a new revision under key.
func (s *Store[E]) Insert(ctx context.Context, key string, e E) error {
	b, err := s.codec.Encode(e)
	if err != nil {
		return fmt.Errorf("entity: encode %q: %w", key, err)
	}
	return s.InsertBytes(ctx, key, b)
}

// InsertBytes writes raw content as a new revision under key, attributed
// to the facade's author. The size limit is enforced before anything is
// written; an oversized payload is never partially applied.
func (s *Store[E]) InsertBytes(ctx context.Context, key string, b []byte) error {
	if uint64(len(b)) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(b), s.maxBytes)
	}
	digest, err := s.blobs.Put(b)
	if err != nil {
		return err
	}
	return s.log.SetEntry(ctx, []byte(key), digest, uint64(len(b)), s.author)
}

// TicketString returns the dataset's encoded invitation ticket, or an
// empty string when this side created the dataset without issuing one.
func (s *Store[E]) TicketString() string { return s.ticket }
