// Package config holds the layered runtime configuration (§3 "Config",
// §4.3 "Configuration layering"): a global settings record plus a map of
// per-Target partial overrides, with CLI parsing via kingpin.
//
// Grounded on the teacher's internal/config/config.go for the overall
// shape (grouped fields, DefaultConfig, Validate) and on
// original_source/src/types/config/mux.rs + src/types/mux_config for the
// actual fields this spec's Config needs.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/selector"
	"github.com/nujievik/mux-media-sub000/internal/target"
)

// MuxerKind selects the external muxing tool family.
type MuxerKind int

const (
	// MuxerMkvmerge is the default: mkvtoolnix's mkvmerge produces the
	// final container and engages linked-segment retiming.
	MuxerMkvmerge MuxerKind = iota
	// MuxerFfmpeg is the fallback muxer for non-matroska output; linked
	// retiming never engages (§4.6 applicability requires a matroska-family
	// muxer).
	MuxerFfmpeg
)

func (m MuxerKind) IsDefault() bool { return m == MuxerMkvmerge }

// ColorMode controls ANSI color output, grounded on the teacher's
// internal/config.ColorMode.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// InputConfig controls the grouped input iterator (§4.1).
type InputConfig struct {
	Dir   string
	Range *rangeid.Range
	Skip  []string // glob patterns; directories matching are pruned
	Depth int
	Solo  bool
}

// OutputConfig controls where output is written.
type OutputConfig struct {
	Dir                    string
	Pattern                string // "name_begin,name_tail.ext"; parsed by an external collaborator
	TempDir                string
	IsConstructedFromInput bool
}

// RetimingConfig controls the linked-segment retiming engine (§4.6).
type RetimingConfig struct {
	NoLinked  bool   // --no-linked: disable retiming entirely
	PartsGlob string // --parts <glob>: restrict external-part search
}

// TrackDispositions bundles the three disposition maps (§3 "Dispositions").
type TrackDispositions struct {
	Default disposition.Map[rangeid.TrackID, bool]
	Forced  disposition.Map[rangeid.TrackID, bool]
	Enabled disposition.Map[rangeid.TrackID, bool]
}

// Metadata bundles the names/langs override maps (§3 "Metadata<T>").
type Metadata struct {
	Names disposition.Map[rangeid.TrackID, string]
	Langs disposition.Map[rangeid.TrackID, langcode.Code]
}

// TrackSelectors bundles the four track-kind selectors.
type TrackSelectors struct {
	Audio  selector.Selector[rangeid.TrackID]
	Sub    selector.Selector[rangeid.TrackID]
	Video  selector.Selector[rangeid.TrackID]
	Button selector.Selector[rangeid.TrackID]
}

// AttachSelectors bundles the two attachment-kind selectors.
type AttachSelectors struct {
	Font  selector.Selector[rangeid.AttachID]
	Other selector.Selector[rangeid.AttachID]
}

// ToolPaths overrides the executable name/path used for each external
// tool; empty means "use PATH lookup of the default name".
type ToolPaths struct {
	Mkvmerge   string
	Mkvinfo    string
	Mkvextract string
	Ffmpeg     string
	Ffprobe    string
}

// Config is the immutable (after ParseFlags) snapshot consumed by every
// other package: input/output location, locale, worker count, per-kind
// selectors, dispositions, metadata, retiming options, and the per-Target
// override map.
type Config struct {
	Input  InputConfig
	Output OutputConfig

	Locale     langcode.Code
	Verbose    int // -v repeated; -q decrements
	ExitOnErr  bool
	SaveConfig bool
	Reencode   bool
	Jobs       int
	ColorMode  ColorMode
	LogFile    string

	Tracks      TrackSelectors
	Attachs     AttachSelectors
	Disposition TrackDispositions
	Meta        Metadata
	Retiming    RetimingConfig

	Muxer MuxerKind
	Tools ToolPaths

	Targets map[target.Target]PartialConfig
}

// PartialConfig is the per-Target override record (§4.3): every field is
// optional; only a present field counts as an override.
type PartialConfig struct {
	Tracks      PartialTrackSelectors
	Attachs     PartialAttachSelectors
	Disposition PartialTrackDispositions
	Meta        PartialMetadata
}

type PartialTrackSelectors struct {
	Audio  *selector.Selector[rangeid.TrackID]
	Sub    *selector.Selector[rangeid.TrackID]
	Video  *selector.Selector[rangeid.TrackID]
	Button *selector.Selector[rangeid.TrackID]
}

type PartialAttachSelectors struct {
	Font  *selector.Selector[rangeid.AttachID]
	Other *selector.Selector[rangeid.AttachID]
}

type PartialTrackDispositions struct {
	Default *disposition.Map[rangeid.TrackID, bool]
	Forced  *disposition.Map[rangeid.TrackID, bool]
	Enabled *disposition.Map[rangeid.TrackID, bool]
}

type PartialMetadata struct {
	Names *disposition.Map[rangeid.TrackID, string]
	Langs *disposition.Map[rangeid.TrackID, langcode.Code]
}

// DefaultConfig returns the base Config before ParseFlags applies CLI
// overrides. Selectors default to "keep everything"; dispositions/metadata
// default to empty (auto-inference only, no overrides); locale is read
// from the environment the way original_source/src/types/lang/new.rs
// reads LC_ALL/LANG/LC_MESSAGES (LangCode::init), falling back to Und.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Depth: 3,
		},
		Output: OutputConfig{
			Pattern: "muxed/name_tail.ext",
		},
		Locale:    localeFromEnv(),
		Jobs:      1,
		ColorMode: ColorAuto,
		Muxer:     MuxerMkvmerge,
		Tracks:    TrackSelectors{Audio: selector.All[rangeid.TrackID](), Sub: selector.All[rangeid.TrackID](), Video: selector.All[rangeid.TrackID](), Button: selector.All[rangeid.TrackID]()},
		Attachs:   AttachSelectors{Font: selector.All[rangeid.AttachID](), Other: selector.All[rangeid.AttachID]()},
		Tools:     ToolPaths{Mkvmerge: "mkvmerge", Mkvinfo: "mkvinfo", Mkvextract: "mkvextract", Ffmpeg: "ffmpeg", Ffprobe: "ffprobe"},
		Targets:   make(map[target.Target]PartialConfig),
	}
}

// localeFromEnv mirrors LangCode::init in original_source/src/types/lang/new.rs:
// try LC_ALL, then LANG, then LC_MESSAGES, defaulting to Und.
func localeFromEnv() langcode.Code {
	for _, key := range []string{"LC_ALL", "LANG", "LC_MESSAGES"} {
		if v := os.Getenv(key); v != "" {
			if c, ok := langcode.Get(v); ok {
				return c
			}
		}
	}
	return langcode.Und
}

// Validate checks structural invariants not enforced by the flag parser
// itself (matching the teacher's config.Validate shape: cheap, returns a
// plain error, called once after ParseFlags).
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return &ValidationError{"missing input directory"}
	}
	if c.Jobs <= 0 {
		c.Jobs = 1
	}
	return nil
}

type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

// ValidatePaths ensures the resolved output directory is not inside (or
// equal to) the resolved input directory, preventing the grouped input
// iterator from discovering its own output. Mirrors the teacher's
// config.ValidatePaths.
func ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return &ValidationError{"output directory must not be inside input directory"}
	}
	return nil
}
