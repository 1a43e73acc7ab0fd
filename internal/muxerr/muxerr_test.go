package muxerr

import (
	"errors"
	"testing"
)

func TestNewAndError(t *testing.T) {
	e := New("boom")
	if e.Kind != Unknown {
		t.Errorf("Kind = %v, want Unknown", e.Kind)
	}
	if e.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", e.Error(), "boom")
	}
}

func TestWrapPreservesKind(t *testing.T) {
	inner := WithKind(NotRecognizedMedia, "inner")
	wrapped := Wrap("outer", inner)
	if wrapped.Kind != NotRecognizedMedia {
		t.Errorf("Wrap should propagate Kind, got %v", wrapped.Kind)
	}
	if wrapped.Error() != "outer: inner" {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), "outer: inner")
	}
}

func TestWrapPlainCause(t *testing.T) {
	wrapped := Wrap("outer", errors.New("plain"))
	if wrapped.Kind != Unknown {
		t.Errorf("Wrap of a plain error should be Unknown, got %v", wrapped.Kind)
	}
}

func TestIsOkExit(t *testing.T) {
	ok := OkExitf("done: %d", 3)
	if !IsOkExit(ok) {
		t.Error("OkExitf result should report IsOkExit")
	}
	if IsOkExit(errors.New("plain")) {
		t.Error("a plain error should not be IsOkExit")
	}
	wrapped := Wrap("outer", ok)
	if !IsOkExit(wrapped) {
		t.Error("IsOkExit should unwrap through Wrap")
	}
}

func TestRecoverable(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{NotRecognizedMedia, true},
		{NotSavedAnyTrack, true},
		{GroupEmpty, true},
		{ToolFailure, false},
		{Unknown, false},
		{InvalidValue, false},
	}
	for _, c := range cases {
		err := WithKind(c.kind, "x")
		if got := Recoverable(err); got != c.want {
			t.Errorf("Recoverable(%v) = %v, want %v", c.kind, got, c.want)
		}
	}
	if Recoverable(errors.New("plain")) {
		t.Error("a plain error should not be Recoverable")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := Wrap("msg", cause)
	if !errors.Is(e, cause) {
		t.Error("errors.Is should find the wrapped cause via Unwrap")
	}
}
