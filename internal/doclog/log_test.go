package doclog

import (
	"context"
	"errors"
	"testing"
	"time"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

func openTestLog(t *testing.T, dataset string) *Log {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l, err := Open(db, dataset, "testid-"+dataset)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	return l
}

func TestEntriesLatestRevisionPerKey(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t, "folder")

	if err := l.SetEntry(ctx, []byte("k1"), "d1", 10, "author"); err != nil {
		t.Fatalf("set k1: %v", err)
	}
	if err := l.SetEntry(ctx, []byte("k1"), "d2", 20, "author"); err != nil {
		t.Fatalf("set k1 again: %v", err)
	}
	if err := l.SetEntry(ctx, []byte("k2"), "d3", 30, "author"); err != nil {
		t.Fatalf("set k2: %v", err)
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	got, err := l.GetEntry([]byte("k1"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Digest != "d2" || got.Size != 20 {
		t.Fatalf("expected latest revision, got %+v", got)
	}
	if _, err := l.GetEntry([]byte("nope")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEntriesIncludesHighByteKeys(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t, "folder")

	if err := l.SetEntry(ctx, []byte("normal"), "d1", 10, "author"); err != nil {
		t.Fatalf("set normal: %v", err)
	}
	high := []byte{0xFF, 'x'}
	if err := l.SetEntry(ctx, high, "d2", 20, "author"); err != nil {
		t.Fatalf("set high-byte key: %v", err)
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Entries returned %d entries, want 2 (high-byte key dropped)", len(entries))
	}
	got, err := l.GetEntry(high)
	if err != nil {
		t.Fatalf("get high-byte key: %v", err)
	}
	if got.Digest != "d2" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestSubscribeDeliversInOrder(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t, "node")

	if err := l.ApplyRemote(ctx, Entry{Key: []byte("a"), Digest: "d1", Size: 1}, "p1"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := l.MarkContentReady(ctx, "d1"); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if err := l.MarkAllClear(ctx); err != nil {
		t.Fatalf("all clear: %v", err)
	}

	sub, err := l.Subscribe(ctx, SubscribeOptions{From: "earliest"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	want := []Kind{KindRemoteInsert, KindContentReady, KindAllClear}
	for i, k := range want {
		select {
		case ev := <-sub.Events():
			if ev.Kind() != k {
				t.Fatalf("event %d: got %s want %s", i, ev.Kind(), k)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for event %d", i)
		}
	}
}

func TestSubscribeFromLatestSkipsHistory(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t, "node")

	if err := l.MarkRoundComplete(ctx, "old"); err != nil {
		t.Fatalf("round: %v", err)
	}
	sub, err := l.Subscribe(ctx, SubscribeOptions{From: "latest"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if err := l.NotePeerJoined(ctx, "p9"); err != nil {
		t.Fatalf("peer joined: %v", err)
	}
	select {
	case ev := <-sub.Events():
		pj, ok := ev.(PeerJoined)
		if !ok || pj.Peer != "p9" {
			t.Fatalf("expected PeerJoined p9, got %#v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for live event")
	}
}

func TestSubscribeCELFilter(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t, "folder")

	if err := l.ApplyRemote(ctx, Entry{Key: []byte("small"), Digest: "d1", Size: 5}, "p"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := l.ApplyRemote(ctx, Entry{Key: []byte("big"), Digest: "d2", Size: 5000}, "p"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	sub, err := l.Subscribe(ctx, SubscribeOptions{From: "earliest", Filter: `kind == "remote-insert" && size > 100`})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case ev := <-sub.Events():
		ri, ok := ev.(RemoteInsert)
		if !ok || ri.Key != "big" {
			t.Fatalf("expected filtered RemoteInsert big, got %#v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for filtered event")
	}
}

func TestSubscribeInvalidFilterFails(t *testing.T) {
	l := openTestLog(t, "folder")
	if _, err := l.Subscribe(context.Background(), SubscribeOptions{Filter: "not a (valid"}); err == nil {
		t.Fatal("expected error for invalid filter")
	}
}

func TestReopenPreservesSequence(t *testing.T) {
	ctx := context.Background()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	l1, err := Open(db, "folder", "ds1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := l1.NotePeerJoined(ctx, "p"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	l2, err := Open(db, "folder", "ds1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if l2.LastSeq() != 3 {
		t.Fatalf("expected lastSeq 3 after reopen, got %d", l2.LastSeq())
	}
}
