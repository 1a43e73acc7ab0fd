// Package muxerr defines the typed error taxonomy used across the core.
//
// Errors carry a [Kind] so callers (the MediaInfo cache, the driver) can
// decide whether a failure is recoverable (warn and drop the offending file
// or group) or fatal (propagate, honoring Config.ExitOnErr). A zero-value
// Kind ([Unknown]) behaves like a plain wrapped error.
package muxerr

import "fmt"

// Kind classifies an error for recoverability decisions by callers.
type Kind int

const (
	// Unknown covers I/O, parsing, and regex-compile failures with no
	// more specific classification.
	Unknown Kind = iota
	// InvalidValue marks a configuration or parsed value that violates
	// its schema (bad range, unknown language code, malformed map).
	InvalidValue
	// OkExit marks a successful informational short-circuit (--help,
	// list-* commands). Exit 0, nothing printed to stderr.
	OkExit
	// ToolFailure marks a non-zero exit from an external tool; Stdout
	// carries whatever the tool printed before failing.
	ToolFailure
	// NotRecognizedMedia marks a file that failed both matroska and
	// mkvmerge probing.
	NotRecognizedMedia
	// NotSavedAnyTrack marks a file with nothing left to copy after
	// track/attachment filtering.
	NotSavedAnyTrack
	// GroupEmpty marks a group with no content after per-file filtering.
	GroupEmpty
)

// Error is the typed error carried through the core. It wraps an
// underlying cause and tags it with a [Kind] for classification.
type Error struct {
	Kind   Kind
	Msg    string
	Stdout string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a plain [Unknown]-kind error from a message.
func New(msg string) *Error { return &Error{Kind: Unknown, Msg: msg} }

// Newf builds a plain [Unknown]-kind error from a format string.
func Newf(format string, args ...interface{}) *Error {
	return &Error{Kind: Unknown, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches msg to an existing error, preserving Unknown kind unless
// the cause is itself an *Error, whose Kind is then propagated.
func Wrap(msg string, cause error) *Error {
	k := Unknown
	var e *Error
	if As(cause, &e) {
		k = e.Kind
	}
	return &Error{Kind: k, Msg: msg, Cause: cause}
}

// WithKind tags msg with an explicit Kind.
func WithKind(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// OkExitf constructs the sentinel used to unwind a short-circuit success
// path (e.g. "retiming not required") without treating it as a failure.
func OkExitf(format string, args ...interface{}) *Error {
	return &Error{Kind: OkExit, Msg: fmt.Sprintf(format, args...)}
}

// IsOkExit reports whether err is an [OkExit]-kind sentinel.
func IsOkExit(err error) bool {
	var e *Error
	return As(err, &e) && e.Kind == OkExit
}

// Recoverable reports whether err represents a condition the driver should
// warn-and-continue on rather than abort the whole run, independent of the
// user's --exit-on-err setting (which the caller applies on top).
func Recoverable(err error) bool {
	var e *Error
	if !As(err, &e) {
		return false
	}
	switch e.Kind {
	case NotRecognizedMedia, NotSavedAnyTrack, GroupEmpty:
		return true
	default:
		return false
	}
}

// As is a thin wrapper over errors.As to avoid importing errors in callers
// that only need this one assertion.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
