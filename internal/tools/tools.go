// Package tools runs the external binaries the core shells out to
// (mkvmerge, mkvinfo, mkvextract, ffmpeg, ffprobe), capturing stdout the
// way the rest of the core expects to parse it.
//
// Grounded on the teacher's internal/ffmpeg/executor.go (context-aware
// exec.Command, captured-buffer-plus-optional-tee execution shape) and
// internal/check/check.go (LookPath-based availability checks,
// runSilent-style throwaway probes), generalized from a single ffmpeg
// invocation to the five tools this spec's muxer/retiming stages need.
package tools

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
)

// Tool identifies one of the five external binaries the core depends on.
type Tool int

const (
	Mkvmerge Tool = iota
	Mkvinfo
	Mkvextract
	Ffmpeg
	Ffprobe
)

func (t Tool) String() string {
	switch t {
	case Mkvmerge:
		return "mkvmerge"
	case Mkvinfo:
		return "mkvinfo"
	case Mkvextract:
		return "mkvextract"
	case Ffmpeg:
		return "ffmpeg"
	case Ffprobe:
		return "ffprobe"
	default:
		return "unknown-tool"
	}
}

// Runner resolves a Tool to its configured executable path and runs it,
// capturing stdout for the caller to parse.
type Runner struct {
	paths   map[Tool]string
	verbose int
}

// New builds a Runner from the resolved ToolPaths of cfg.
func New(cfg *config.Config) *Runner {
	return &Runner{
		paths: map[Tool]string{
			Mkvmerge:   cfg.Tools.Mkvmerge,
			Mkvinfo:    cfg.Tools.Mkvinfo,
			Mkvextract: cfg.Tools.Mkvextract,
			Ffmpeg:     cfg.Tools.Ffmpeg,
			Ffprobe:    cfg.Tools.Ffprobe,
		},
		verbose: cfg.Verbose,
	}
}

// Path returns the configured executable name/path for t.
func (r *Runner) Path(t Tool) string { return r.paths[t] }

// Run executes t with args, returning captured stdout. Stderr is always
// captured and, on failure, appended to the returned error's message; when verbose
// mode is active stderr is additionally teed to os.Stderr, matching the
// teacher's Execute's verbose tee.
func (r *Runner) Run(ctx context.Context, t Tool, args ...string) (string, error) {
	path := r.paths[t]
	if path == "" {
		path = t.String()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if r.verbose > 0 {
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		msg := t.String() + " failed: " + err.Error()
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return stdout.String(), &muxerr.Error{
			Kind:   muxerr.ToolFailure,
			Msg:    msg,
			Stdout: stdout.String(),
			Cause:  err,
		}
	}
	return stdout.String(), nil
}

// LookPath reports whether t's configured executable can be resolved on
// PATH, mirroring the teacher's check.CheckDeps LookPath probes.
func (r *Runner) LookPath(t Tool) error {
	path := r.paths[t]
	if path == "" {
		path = t.String()
	}
	_, err := exec.LookPath(path)
	return err
}
