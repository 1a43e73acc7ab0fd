package rangeid

import (
	"strconv"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/langcode"
)

// TrackID is a lookup key in ID-indexed maps: a bare track number, a
// language code, or a range of numbers. Exactly one variant is active.
type TrackID struct {
	kind  trackIDKind
	num   uint64
	lang  langcode.Code
	rng   Range
}

type trackIDKind int

const (
	tidNum trackIDKind = iota
	tidLang
	tidRange
)

// NumTrackID builds a Num(n) TrackID.
func NumTrackID(n uint64) TrackID { return TrackID{kind: tidNum, num: n} }

// LangTrackID builds a Lang(l) TrackID.
func LangTrackID(l langcode.Code) TrackID { return TrackID{kind: tidLang, lang: l} }

// RangeTrackID builds a Range(r) TrackID.
func RangeTrackID(r Range) TrackID { return TrackID{kind: tidRange, rng: r} }

// Contains implements range membership for numeric/range ids, and equality
// for a language id against another language id.
func (t TrackID) Contains(other TrackID) bool {
	switch t.kind {
	case tidNum:
		return other.kind == tidNum && other.num == t.num
	case tidLang:
		return other.kind == tidLang && other.lang == t.lang
	case tidRange:
		if other.kind == tidNum {
			return t.rng.Contains(other.num)
		}
		if other.kind == tidRange {
			return t.rng.ContainsRange(other.rng)
		}
		return false
	}
	return false
}

// ParseTrackID parses a single token: a bare integer, a range "a-b", or a
// language code.
func ParseTrackID(s string) (TrackID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumTrackID(n), nil
	}
	if strings.ContainsAny(s, "-") {
		if r, err := ParseRange(s); err == nil {
			return RangeTrackID(r), nil
		}
	}
	if c, ok := langcode.Get(s); ok {
		return LangTrackID(c), nil
	}
	return TrackID{}, &ParseError{Token: s}
}

// ParseError reports a token that could not be parsed as any TrackID/AttachID
// variant.
type ParseError struct{ Token string }

func (e *ParseError) Error() string { return "invalid id token: " + e.Token }

// AttachID is the attachment analogue of TrackID, without the language
// variant.
type AttachID struct {
	isRange bool
	num     uint64
	rng     Range
}

// NumAttachID builds a Num(n) AttachID.
func NumAttachID(n uint64) AttachID { return AttachID{num: n} }

// RangeAttachID builds a Range(r) AttachID.
func RangeAttachID(r Range) AttachID { return AttachID{isRange: true, rng: r} }

// Num returns the numeric id of a Num(n) AttachID, or its range's start
// when built from a Range (used to produce a stable sort/display key).
func (a AttachID) Num() uint64 {
	if a.isRange {
		return a.rng.Start
	}
	return a.num
}

// Contains implements the same range-membership semantics as TrackID.
func (a AttachID) Contains(other AttachID) bool {
	switch {
	case a.isRange && other.isRange:
		return a.rng.ContainsRange(other.rng)
	case a.isRange:
		return a.rng.Contains(other.num)
	case !a.isRange && !other.isRange:
		return a.num == other.num
	default:
		return false
	}
}

// ParseAttachID parses a single token as a bare integer or a range.
func ParseAttachID(s string) (AttachID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumAttachID(n), nil
	}
	if r, err := ParseRange(s); err == nil {
		return RangeAttachID(r), nil
	}
	return AttachID{}, &ParseError{Token: s}
}
