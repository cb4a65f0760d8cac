package blob

import (
	"bytes"
	"errors"
	"testing"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestPutResolve(t *testing.T) {
	s := newTestStore(t)
	data := []byte("some content")
	digest, err := s.Put(data)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if digest != Digest(data) {
		t.Fatalf("digest mismatch: %s vs %s", digest, Digest(data))
	}
	got, err := s.Resolve(digest)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content mismatch")
	}
	if !s.Has(digest) {
		t.Fatal("Has should report stored digest")
	}
}

func TestResolveNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Resolve("deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Has("deadbeef") {
		t.Fatal("Has should be false for missing digest")
	}
}

func TestDigestStable(t *testing.T) {
	a := Digest([]byte("x"))
	b := Digest([]byte("x"))
	c := Digest([]byte("y"))
	if a != b {
		t.Fatal("digest not deterministic")
	}
	if a == c {
		t.Fatal("distinct content must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("expected 32-byte hex digest, got len %d", len(a))
	}
}
