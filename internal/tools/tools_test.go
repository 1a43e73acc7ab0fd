package tools

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToolString(t *testing.T) {
	cases := map[Tool]string{
		Mkvmerge:   "mkvmerge",
		Mkvinfo:    "mkvinfo",
		Mkvextract: "mkvextract",
		Ffmpeg:     "ffmpeg",
		Ffprobe:    "ffprobe",
	}
	for tool, want := range cases {
		if got := tool.String(); got != want {
			t.Errorf("Tool(%d).String() = %q, want %q", tool, got, want)
		}
	}
}

func TestRunCapturesStdout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "mkvmerge", "echo hello-stdout\n")

	cfg := config.DefaultConfig()
	cfg.Tools.Mkvmerge = script
	runner := New(&cfg)

	out, err := runner.Run(context.Background(), Mkvmerge)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "hello-stdout\n" {
		t.Errorf("Run() stdout = %q, want %q", out, "hello-stdout\n")
	}
}

func TestRunNonZeroExitIsToolFailure(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ffprobe", "echo partial-output\nexit 1\n")

	cfg := config.DefaultConfig()
	cfg.Tools.Ffprobe = script
	runner := New(&cfg)

	out, err := runner.Run(context.Background(), Ffprobe)
	if err == nil {
		t.Fatal("expected an error from a non-zero exit")
	}
	if out != "partial-output\n" {
		t.Errorf("Run() should still return captured stdout on failure, got %q", out)
	}
	var merr *muxerr.Error
	if !muxerr.As(err, &merr) {
		t.Fatal("expected a *muxerr.Error")
	}
	if merr.Kind != muxerr.ToolFailure {
		t.Errorf("Kind = %v, want ToolFailure", merr.Kind)
	}
	if merr.Stdout != "partial-output\n" {
		t.Errorf("Stdout = %q, want %q", merr.Stdout, "partial-output\n")
	}
}

func TestLookPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.Mkvmerge = "definitely-not-a-real-binary-xyz"
	runner := New(&cfg)
	if err := runner.LookPath(Mkvmerge); err == nil {
		t.Error("expected LookPath to fail for a nonexistent binary")
	}
}

func TestPathReturnsConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.Ffmpeg = "/custom/ffmpeg"
	runner := New(&cfg)
	if got := runner.Path(Ffmpeg); got != "/custom/ffmpeg" {
		t.Errorf("Path(Ffmpeg) = %q, want /custom/ffmpeg", got)
	}
}
