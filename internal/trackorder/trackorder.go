// Package trackorder implements the deterministic stream/track order
// resolver (§4.5 "TrackOrder") and the disposition auto-inference engine
// (§4.4) that runs over the resolved order.
//
// Grounded on original_source/src/types/track_order/new.rs: the
// TryFrom<&mut MediaInfo> constructor (raw_media -> sort-key pass ->
// numbering pass -> optional retiming rebuild) and its OrderSortKey
// (track_type, default, forced, enabled, it_signs, lang) tuple ordering,
// extended with the path tiebreaker spec.md §4.5 names explicitly that the
// Rust source leaves to a stable sort.
package trackorder

import (
	"sort"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
)

// RetimedPart is one linked-segment part of a retimed track: the file
// holding this part's content (an extracted/retimed subtitle, or the
// original source when no shift was needed) and whether it is byte-for-byte
// the original source (§4.6 "no_retiming booleans").
type RetimedPart struct {
	Path       string
	NoRetiming bool
}

// RetimedTrack is the per-track result of the retiming engine (§4.6
// "Output"): one RetimedPart per linked-segment part.
type RetimedTrack struct {
	Parts []RetimedPart
}

// OrderItem is one resolved (file, track) entry of a TrackOrder (§3
// "TrackOrder"). Items sharing Media share Number; exactly one such item
// has IsFirstEntry true.
type OrderItem struct {
	Media        string
	Number       uint64
	IsFirstEntry bool
	Track        uint64
	Type         mediainfo.TrackType
	Retimed      *RetimedTrack
}

// sortKey is the 7-key lexicographic comparator of §4.5. Default/Forced/
// Enabled are read from the USER-set disposition override only (not the
// auto-inferred value, which is computed afterward by ResolveDispositions
// and must not feed back into ordering) — mirrors OrderSortKey in
// original_source/src/types/track_order/new.rs, which builds its key from
// `cfg.target(...).get(...)` before any auto pass runs.
type sortKey struct {
	trackType int
	def       int
	forced    int
	enabled   int
	itSigns   int
	lang      int
	path      string
}

func flagRank(v *bool) int {
	if v == nil {
		return 1
	}
	if *v {
		return 0
	}
	return 2
}

func typeRank(t mediainfo.TrackType) int {
	switch t {
	case mediainfo.TrackVideo:
		return 0
	case mediainfo.TrackAudio:
		return 1
	case mediainfo.TrackSub:
		return 2
	default:
		return 3
	}
}

func less(a, b sortKey) bool {
	if a.trackType != b.trackType {
		return a.trackType < b.trackType
	}
	if a.def != b.def {
		return a.def < b.def
	}
	if a.forced != b.forced {
		return a.forced < b.forced
	}
	if a.enabled != b.enabled {
		return a.enabled < b.enabled
	}
	if a.itSigns != b.itSigns {
		return a.itSigns < b.itSigns
	}
	if a.lang != b.lang {
		return a.lang < b.lang
	}
	return a.path < b.path
}

type rawEntry struct {
	pathIdx int
	track   uint64
	ty      mediainfo.TrackType
	key     sortKey
}

// Build computes the TrackOrder for every saved track across paths (§4.5).
// paths must already be the set of files successfully inserted into mi;
// Build returns an error if paths is empty, mirroring the Rust source's
// "Not found any cached media file".
func Build(mi *mediainfo.MediaInfo, cfg *config.Config, upmost string, paths []string) ([]OrderItem, error) {
	if len(paths) == 0 {
		return nil, muxerr.New("not found any cached media file")
	}

	media := append([]string(nil), paths...)
	sort.Strings(media)

	var raw []rawEntry
	for i, p := range media {
		saved, err := mi.SavedTracks(p, upmost, cfg)
		if err != nil {
			return nil, err
		}
		targets, err := mi.Targets(p, upmost)
		if err != nil {
			return nil, err
		}
		tgSlice := targets[:]

		defaults := cfg.DefaultDispositions(tgSlice)
		forceds := cfg.ForcedDispositions(tgSlice)
		enableds := cfg.EnabledDispositions(tgSlice)

		for ty, nums := range saved {
			for _, num := range nums {
				lang, _ := mi.TrackLang(p, num)
				itSigns := ty == mediainfo.TrackSub && trackLooksSigns(mi, p, num)

				numID := rangeid.NumTrackID(num)
				langID := rangeid.LangTrackID(lang)

				def := lookupFlag(defaults, numID, langID)
				forced := lookupFlag(forceds, numID, langID)
				enabled := lookupFlag(enableds, numID, langID)

				key := sortKey{
					trackType: typeRank(ty),
					def:       flagRank(def),
					forced:    flagRank(forced),
					enabled:   flagRank(enabled),
					itSigns:   boolRank(itSigns),
					lang:      langcode.SortPriority(lang, cfg.Locale),
					path:      p,
				}
				raw = append(raw, rawEntry{pathIdx: i, track: num, ty: ty, key: key})
			}
		}
	}

	sort.SliceStable(raw, func(i, j int) bool { return less(raw[i].key, raw[j].key) })

	numbers := make([]*uint64, len(media))
	var next uint64
	items := make([]OrderItem, 0, len(raw))
	for _, r := range raw {
		isFirst := numbers[r.pathIdx] == nil
		if isFirst {
			n := next
			numbers[r.pathIdx] = &n
			next++
		}
		items = append(items, OrderItem{
			Media:        media[r.pathIdx],
			Number:       *numbers[r.pathIdx],
			IsFirstEntry: isFirst,
			Track:        r.track,
			Type:         r.ty,
		})
	}
	return items, nil
}

func boolRank(b bool) int {
	if b {
		return 0
	}
	return 1
}

// lookupFlag probes m by numeric id first, then by language id, matching
// `defaults.get(&tids[0]).or_else(|| defaults.get(&tids[1]))` in the Rust
// source. Returns nil when neither lookup hits (no user override).
func lookupFlag(m disposition.Map[rangeid.TrackID, bool], num, lang rangeid.TrackID) *bool {
	contains := func(have, want rangeid.TrackID) bool { return have.Contains(want) }
	if v, ok := disposition.Get(m, num, contains); ok {
		return &v
	}
	if v, ok := disposition.Get(m, lang, contains); ok {
		return &v
	}
	return nil
}

func trackLooksSigns(mi *mediainfo.MediaInfo, path string, num uint64) bool {
	// Scans the resolved track name only (TrackName, which falls back to
	// the path tail when the container carries no name). The path tail and
	// the relative upmost directory are not scanned on their own.
	name, _ := mi.TrackName(path, num)
	return containsSignsWord(name)
}

var signsWords = map[string]bool{
	"signs": true, "songs": true, "sign": true, "song": true,
	"caption": true, "captions": true, "надписи": true,
}

func containsSignsWord(s string) bool {
	word := make([]rune, 0, 16)
	flush := func() bool {
		if len(word) == 0 {
			return false
		}
		lw := make([]rune, len(word))
		for i, r := range word {
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			if r >= 'А' && r <= 'Я' {
				r += 'а' - 'А'
			}
			lw[i] = r
		}
		word = word[:0]
		return signsWords[string(lw)]
	}
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё':
			word = append(word, r)
		default:
			if flush() {
				return true
			}
		}
	}
	return flush()
}
