package identity

import (
	"testing"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

func TestLoadPersists(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	id1, err := Load(db)
	if err != nil {
		t.Fatalf("load1: %v", err)
	}
	id2, err := Load(db)
	if err != nil {
		t.Fatalf("load2: %v", err)
	}
	if id1.ID() != id2.ID() {
		t.Fatalf("identity not stable across loads: %s vs %s", id1.ID(), id2.ID())
	}
	if len(id1.ID()) != 64 {
		t.Fatalf("expected 32-byte hex public key, got len %d", len(id1.ID()))
	}
}

func TestSignVerify(t *testing.T) {
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	id, err := Load(db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	msg := []byte("attributed write")
	sig := id.Sign(msg)
	if !id.Verify(msg, sig) {
		t.Fatal("signature did not verify")
	}
	if id.Verify([]byte("tampered"), sig) {
		t.Fatal("signature verified for wrong message")
	}
}
