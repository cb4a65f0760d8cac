package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNodeCodecRoundTrip(t *testing.T) {
	c := NodeCodec{}
	in := Node{ID: "n1", Title: "title", Body: "body text"}
	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestMissingPlaceholderLabel(t *testing.T) {
	if got := (FolderCodec{}).MissingPlaceholder("k").Name; got != DefaultMissingLabel {
		t.Fatalf("default label = %q", got)
	}
	if got := (FolderCodec{MissingLabel: "fehlt"}).MissingPlaceholder("k").Name; got != "fehlt" {
		t.Fatalf("custom label = %q", got)
	}
	p := (ResourceCodec{}).MissingPlaceholder("r1")
	if p.ID != "r1" || p.Name != DefaultMissingLabel {
		t.Fatalf("resource placeholder = %+v", p)
	}
}

func TestNewResourceAssignsID(t *testing.T) {
	a := NewResource("a.txt", []byte("x"))
	b := NewResource("a.txt", []byte("x"))
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("resource ids must be unique and non-empty: %q vs %q", a.ID, b.ID)
	}
}

func TestLoadDirSkipsDotfilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	writeFile("a.txt", "alpha")
	writeFile("b.txt", "beta")
	writeFile(".hidden", "nope")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d resources, want 2", len(got))
	}
	if got[0].Name != "a.txt" || string(got[0].Blob) != "alpha" {
		t.Fatalf("unexpected resource: %+v", got[0])
	}
}
