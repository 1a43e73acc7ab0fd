// Package target implements the `--target` scoping key (§3 "Target"):
// the map key Config uses to resolve per-scope overrides (global, a
// track-kind group, or a filesystem path).
//
// Grounded on original_source's target/command_factory shape (the
// `--target <spec>` CLI token that either names a known group keyword or
// a path) and spec.md §3's Target definition. The Stream(T) variant spec.md
// names is not wired by any builder in this core (no caller ever scopes
// an override to a single stream kind independent of its track-kind
// group), so it is omitted here rather than carried unused; Global/Group/
// Path cover every call site in config, mediainfo and display.
package target

import "path/filepath"

// Kind discriminates the variant a Target holds.
type Kind int

const (
	KindGlobal Kind = iota
	KindGroup
	KindPath
)

// Group is the closed set of track-kind scopes a --target group keyword
// can name (§3 "Group(G ∈ {Audio,Sub,Video,Button,Font,Other})").
type Group int

const (
	GroupAudio Group = iota
	GroupSub
	GroupVideo
	GroupButton
	GroupFont
	GroupOther
)

// String returns the canonical --target keyword for g, also used by
// --list-targets (internal/display).
func (g Group) String() string {
	switch g {
	case GroupAudio:
		return "audio"
	case GroupSub:
		return "subs"
	case GroupVideo:
		return "video"
	case GroupButton:
		return "buttons"
	case GroupFont:
		return "fonts"
	case GroupOther:
		return "attachs"
	default:
		return "unknown"
	}
}

// Target is the key type for Config.Targets (§3 "Target"). It is a plain
// comparable struct rather than a tagged union so it can serve directly as
// a map key; Kind says which of Group/Path is meaningful.
type Target struct {
	Kind  Kind
	Group Group
	Path  string
}

// Global is the zero Target: the top-level scope every field falls back
// to when no more specific override matches.
func Global() Target { return Target{Kind: KindGlobal} }

// FromGroup builds a Target scoped to track-kind group g.
func FromGroup(g Group) Target { return Target{Kind: KindGroup, Group: g} }

// FromPath builds a Target scoped to a filesystem path, canonicalized so
// that two different spellings of the same file compare equal as map keys
// (spec.md §3: "Target — … Equality over canonicalized path").
func FromPath(path string) Target {
	return Target{Kind: KindPath, Path: canonicalize(path)}
}

func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

var groupKeywords = map[string]Group{
	"audio":    GroupAudio,
	"subs":     GroupSub,
	"sub":      GroupSub,
	"subtitle": GroupSub,
	"video":    GroupVideo,
	"buttons":  GroupButton,
	"button":   GroupButton,
	"fonts":    GroupFont,
	"font":     GroupFont,
	"attachs":  GroupOther,
	"attach":   GroupOther,
	"other":    GroupOther,
}

// Parse resolves a `--target <spec>` token (§6 "Scope selectors") into a
// Target: the literal "global", a known group keyword, or else a path.
func Parse(token string) Target {
	if token == "global" {
		return Global()
	}
	if g, ok := groupKeywords[token]; ok {
		return FromGroup(g)
	}
	return FromPath(token)
}
