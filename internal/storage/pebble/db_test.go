package pebblestore

import (
	"bytes"
	"errors"
	"testing"
)

func TestSetGetDelete(t *testing.T) {
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Set([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := db.Get([]byte("k1"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("v1")) {
		t.Fatalf("got %q want v1", got)
	}
	if err := db.Delete([]byte("k1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get([]byte("k1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPrefixIter(t *testing.T) {
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, k := range []string{"a/1", "a/2", "b/1"} {
		if err := db.Set([]byte(k), []byte("x")); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	it, err := db.PrefixIter([]byte("a/"))
	if err != nil {
		t.Fatalf("iter: %v", err)
	}
	defer it.Close()
	n := 0
	for ok := it.First(); ok; ok = it.Next() {
		n++
	}
	if n != 2 {
		t.Fatalf("expected 2 keys under a/, got %d", n)
	}
}

func TestPrefixIterIncludesHighByteKeys(t *testing.T) {
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Keys whose suffix starts with 0xFF sort above prefix+0xFF; the
	// bound must be the true prefix successor or they vanish from scans.
	keys := [][]byte{
		[]byte("a/1"),
		append([]byte("a/"), 0xFF, 'x'),
		append([]byte("a/"), 0xFF, 0xFF),
		[]byte("b/1"),
	}
	for _, k := range keys {
		if err := db.Set(k, []byte("x")); err != nil {
			t.Fatalf("set %q: %v", k, err)
		}
	}
	it, err := db.PrefixIter([]byte("a/"))
	if err != nil {
		t.Fatalf("iter: %v", err)
	}
	defer it.Close()
	n := 0
	for ok := it.First(); ok; ok = it.Next() {
		n++
	}
	if n != 3 {
		t.Fatalf("expected 3 keys under a/, got %d", n)
	}
}

func TestPrefixSuccessor(t *testing.T) {
	cases := []struct {
		prefix, want []byte
	}{
		{[]byte("a/"), []byte("a0")},
		{[]byte{'a', 0xFF}, []byte("b")},
		{[]byte{0xFF, 0xFF}, nil},
	}
	for _, c := range cases {
		if got := prefixSuccessor(c.prefix); !bytes.Equal(got, c.want) {
			t.Fatalf("prefixSuccessor(%q) = %q, want %q", c.prefix, got, c.want)
		}
	}
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatal("expected error for empty DataDir")
	}
}
