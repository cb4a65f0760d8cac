// Package blob provides the content-addressed byte store. Blobs are
// keyed by the blake2b-256 digest of their bytes, so a digest fully
// identifies content independent of the logical key it was stored under.
package blob

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

// ErrNotFound is returned when no blob exists for a digest.
var ErrNotFound = errors.New("blob: not found")

var keyPrefix = []byte("blob/")

// Digest returns the hex blake2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store is a content-addressed blob store over the shared Pebble DB.
type Store struct {
	db *pebblestore.DB
}

// New returns a Store backed by db.
func New(db *pebblestore.DB) *Store { return &Store{db: db} }

func blobKey(digest string) []byte {
	k := make([]byte, 0, len(keyPrefix)+len(digest))
	k = append(k, keyPrefix...)
	k = append(k, digest...)
	return k
}

// Put stores data and returns its digest. Re-putting identical content is
// a cheap overwrite of the same key.
func (s *Store) Put(data []byte) (string, error) {
	digest := Digest(data)
	if err := s.db.Set(blobKey(digest), data); err != nil {
		return "", err
	}
	return digest, nil
}

// PutAs stores data under a caller-provided digest. Used when content
// arrives from a peer already addressed by its digest.
func (s *Store) PutAs(digest string, data []byte) error {
	return s.db.Set(blobKey(digest), data)
}

// Resolve returns the bytes for digest, or ErrNotFound.
func (s *Store) Resolve(digest string) ([]byte, error) {
	b, err := s.db.Get(blobKey(digest))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Has reports whether the bytes for digest are locally available.
func (s *Store) Has(digest string) bool {
	_, err := s.db.Get(blobKey(digest))
	return err == nil
}
