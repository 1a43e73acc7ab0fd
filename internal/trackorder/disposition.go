package trackorder

import (
	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
)

// Flags is the per-item resolved disposition state (§4.4): nil means the
// flag is left unset on the emitted track (neither forced true nor false).
type Flags struct {
	Default *bool
	Forced  *bool
	Enabled *bool
}

type counterKey struct {
	flag disposition.Flag
	ty   mediainfo.TrackType
}

// ResolveDispositions walks order and computes the per-position
// default/forced/enabled flag values (§4.4), honoring user overrides,
// per-flag auto-inference caps, and the signs/subs default interaction.
// Missing cached tracks are skipped with their Flags left zero, matching
// the Rust source's trace-and-continue behavior (§4.4 "Failure").
func ResolveDispositions(mi *mediainfo.MediaInfo, cfg *config.Config, upmost string, order []OrderItem) ([]Flags, error) {
	out := make([]Flags, len(order))
	counters := map[counterKey]uint64{}
	defaultLangSeen := map[langcode.Code]bool{}
	hasDefaultAudioLocale := false

	for i, item := range order {
		targets, err := mi.Targets(item.Media, upmost)
		if err != nil {
			continue
		}
		tgSlice := targets[:]

		lang, _ := mi.TrackLang(item.Media, item.Track)
		numID := rangeid.NumTrackID(item.Track)
		langID := rangeid.LangTrackID(lang)

		defaultsMap := cfg.DefaultDispositions(tgSlice)
		forcedsMap := cfg.ForcedDispositions(tgSlice)
		enabledsMap := cfg.EnabledDispositions(tgSlice)

		var fl Flags

		fl.Forced = resolveOne(disposition.Forced, forcedsMap, numID, langID, item.Type, counters)
		fl.Enabled = resolveOne(disposition.Enabled, enabledsMap, numID, langID, item.Type, counters)
		fl.Default = resolveDefault(item, lang, defaultsMap, numID, langID, mi, counters, defaultLangSeen, hasDefaultAudioLocale, cfg.Locale)

		if fl.Default != nil && *fl.Default && item.Type == mediainfo.TrackAudio {
			defaultLangSeen[lang] = true
			if lang == cfg.Locale {
				hasDefaultAudioLocale = true
			}
		}

		out[i] = fl
	}
	return out, nil
}

// resolveOne implements the generic (non-Default) flag resolution: user
// override wins; else propose auto-true while under the per-(flag,type)
// cap.
func resolveOne(flag disposition.Flag, m disposition.Map[rangeid.TrackID, bool], numID, langID rangeid.TrackID, ty mediainfo.TrackType, counters map[counterKey]uint64) *bool {
	if v := lookupFlag(m, numID, langID); v != nil {
		if *v {
			bumpCounter(counters, flag, ty)
		}
		return v
	}
	return autoPropose(flag, m, ty, counters)
}

// resolveDefault implements the Default flag's extra signs/subs
// interaction (§4.4 step 1c) on top of the same user-override-then-auto
// shape as resolveOne.
func resolveDefault(
	item OrderItem,
	lang langcode.Code,
	m disposition.Map[rangeid.TrackID, bool],
	numID, langID rangeid.TrackID,
	mi *mediainfo.MediaInfo,
	counters map[counterKey]uint64,
	defaultLangSeen map[langcode.Code]bool,
	hasDefaultAudioLocale bool,
	locale langcode.Code,
) *bool {
	if v := lookupFlag(m, numID, langID); v != nil {
		if *v {
			bumpCounter(counters, disposition.Default, item.Type)
		}
		return v
	}

	if item.Type == mediainfo.TrackSub {
		itSigns := trackLooksSigns(mi, item.Media, item.Track)
		if itSigns {
			if !hasDefaultAudioLocale {
				return nil
			}
		} else if defaultLangSeen[lang] {
			return nil
		}
	}

	return autoPropose(disposition.Default, m, item.Type, counters)
}

func autoPropose(flag disposition.Flag, m disposition.Map[rangeid.TrackID, bool], ty mediainfo.TrackType, counters map[counterKey]uint64) *bool {
	maxAuto := disposition.DefaultMaxInAuto(flag)
	if m.MaxInAuto != nil {
		maxAuto = *m.MaxInAuto
	}
	key := counterKey{flag, ty}
	if counters[key] >= maxAuto {
		return nil
	}
	v := true
	counters[key]++
	return &v
}

func bumpCounter(counters map[counterKey]uint64, flag disposition.Flag, ty mediainfo.TrackType) {
	counters[counterKey{flag, ty}]++
}
