package serverrun

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/seaward/tidemark/internal/config"
	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
	logpkg "github.com/seaward/tidemark/pkg/log"
)

func TestRunSeedsAndQuits(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("ls_folder\nstatus\nquit\n")
	err := Run(context.Background(), Options{
		DataDir:     t.TempDir(),
		Fsync:       pebblestore.FsyncModeNever,
		Config:      cfgpkg.Default(),
		Logger:      logpkg.Discard(),
		SeedFolders: DefaultSeedFolders,
		In:          in,
		Out:         &out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "share this ticket line") {
		t.Fatalf("missing ticket line banner in output:\n%s", got)
	}
	if !strings.Contains(got, "9 folder(s)") {
		t.Fatalf("expected 9 seeded folders in output:\n%s", got)
	}
	if !strings.Contains(got, "node") || !strings.Contains(got, "queue=0/0B") {
		t.Fatalf("expected status rows in output:\n%s", got)
	}
}

func TestDefaultSeedFolders(t *testing.T) {
	if DefaultSeedFolders != 9 {
		t.Fatalf("DefaultSeedFolders = %d, want 9", DefaultSeedFolders)
	}
}

func TestRunSeedsDirectory(t *testing.T) {
	seedDir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.WriteFile(filepath.Join(seedDir, name), []byte("img"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	var out bytes.Buffer
	err := Run(context.Background(), Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfgpkg.Default(),
		Logger:  logpkg.Discard(),
		SeedDir: seedDir,
		In:      strings.NewReader("quit\n"),
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "seeded 2 resource(s)") {
		t.Fatalf("missing resource seeding in output:\n%s", out.String())
	}
}
