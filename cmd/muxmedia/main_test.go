package main

import (
	"path/filepath"
	"testing"
)

func TestHasFlag(t *testing.T) {
	argv := []string{"--input", "/foo", "--check"}
	if !hasFlag(argv, "--check") {
		t.Error("hasFlag should find --check")
	}
	if hasFlag(argv, "--verbose") {
		t.Error("hasFlag should not find a flag that isn't present")
	}
}

func TestAbsPathResolvesRelative(t *testing.T) {
	dir := t.TempDir()
	got, err := absPath(dir)
	if err != nil {
		t.Fatalf("absPath: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("absPath(%q) = %q, want an absolute path", dir, got)
	}
}

func TestRunInfoExitDispatchesKnownFlags(t *testing.T) {
	cases := []string{"--list-langs", "--list-containers", "--list-targets"}
	for _, flag := range cases {
		code, handled := runInfoExit([]string{flag})
		if !handled || code != 0 {
			t.Errorf("runInfoExit([%q]) = (%d, %v), want (0, true)", flag, code, handled)
		}
	}
}

func TestRunInfoExitIgnoresUnknownFlags(t *testing.T) {
	_, handled := runInfoExit([]string{"--input", "/foo"})
	if handled {
		t.Error("runInfoExit should not handle non-info flags")
	}
}

func TestRunPassthroughIgnoresNonToolArgs(t *testing.T) {
	_, handled := runPassthrough([]string{"--input", "/foo"})
	if handled {
		t.Error("runPassthrough should not claim an unrecognized --flag")
	}
	_, handled = runPassthrough(nil)
	if handled {
		t.Error("runPassthrough should not claim an empty argv")
	}
}
