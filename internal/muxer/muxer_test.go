package muxer

import (
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/input"
)

func TestOutputPathDefaultPattern(t *testing.T) {
	cfg := config.DefaultConfig()
	g := input.Group{Files: []string{"/in/Show.S01E01.mkv"}, OutNameMiddle: "Show.S01E01"}

	got, err := outputPath(&cfg, g)
	if err != nil {
		t.Fatalf("outputPath: %v", err)
	}
	want := "/in/muxed/Show.S01E01.mkv"
	if got != want {
		t.Errorf("outputPath() = %q, want %q", got, want)
	}
}

func TestOutputPathCustomPatternKeepsExplicitExt(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Dir = "/out"
	cfg.Output.Pattern = "name_tail.mp4"
	g := input.Group{Files: []string{"/in/a.mkv"}, OutNameMiddle: "a"}

	got, err := outputPath(&cfg, g)
	if err != nil {
		t.Fatalf("outputPath: %v", err)
	}
	want := "/out/a.mp4"
	if got != want {
		t.Errorf("outputPath() = %q, want %q", got, want)
	}
}

func TestOutputPathAddsMkvExtWhenMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Dir = "/out"
	cfg.Output.Pattern = "name_tail"
	g := input.Group{Files: []string{"/in/a.mkv"}, OutNameMiddle: "a"}

	got, err := outputPath(&cfg, g)
	if err != nil {
		t.Fatalf("outputPath: %v", err)
	}
	want := "/out/a.mkv"
	if got != want {
		t.Errorf("outputPath() = %q, want %q", got, want)
	}
}
