package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMediaExtensionsSorted(t *testing.T) {
	exts := MediaExtensions()
	if len(exts) == 0 {
		t.Fatal("expected at least one extension")
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] > exts[i] {
			t.Fatalf("MediaExtensions() not sorted: %q > %q", exts[i-1], exts[i])
		}
	}
}

func TestDiscoverGroupsByStem(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "episode01.mkv"))
	writeFile(t, filepath.Join(root, "episode01.eng.srt.mka"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	cfg := config.DefaultConfig()
	cfg.Input.Dir = root
	cfg.Input.Depth = 2

	groups, err := Discover(&cfg)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Discover() returned %d groups, want 1", len(groups))
	}
	if len(groups[0].Files) != 2 {
		t.Fatalf("group has %d files, want 2", len(groups[0].Files))
	}
}

func TestDiscoverSolo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "only.mkv"))

	cfg := config.DefaultConfig()
	cfg.Input.Dir = root
	cfg.Input.Solo = true

	groups, err := Discover(&cfg)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Files) != 1 {
		t.Fatalf("Discover(solo) = %+v, want a single group with one file", groups)
	}
}

func TestDiscoverEmptyIsGroupEmptyError(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Input.Dir = root
	cfg.Input.Depth = 1

	if _, err := Discover(&cfg); err == nil {
		t.Fatal("expected an error for an empty input directory")
	}
}

func TestTrailingNumber(t *testing.T) {
	cases := []struct {
		stem string
		want uint64
		ok   bool
	}{
		{"episode12", 12, true},
		{"episode", 0, false},
		{"s01e02", 2, true},
	}
	for _, c := range cases {
		n, ok := trailingNumber(c.stem)
		if ok != c.ok || (ok && n != c.want) {
			t.Errorf("trailingNumber(%q) = (%d, %v), want (%d, %v)", c.stem, n, ok, c.want, c.ok)
		}
	}
}
