package mediainfo

import (
	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/selector"
	"github.com/nujievik/mux-media-sub000/internal/target"
)

func trackIDContains(have, want rangeid.TrackID) bool { return have.Contains(want) }

func selectorSave(sel selector.Selector[rangeid.TrackID], id rangeid.TrackID) bool {
	return selector.Save(sel, id, trackIDContains)
}

// selectorFor resolves the per-kind track selector in effect for targets,
// via Config's per-Target lookup (§4.3).
func selectorFor(cfg *config.Config, tt TrackType, targets []target.Target) selector.Selector[rangeid.TrackID] {
	switch tt {
	case TrackAudio:
		return cfg.AudioSelector(targets)
	case TrackSub:
		return cfg.SubSelector(targets)
	case TrackVideo:
		return cfg.VideoSelector(targets)
	default:
		return cfg.ButtonSelector(targets)
	}
}

// trackIDFor returns the track's bare number id. The resolved language is
// not used, so a language id in a track selector matches no track here.
func trackIDFor(num uint64, ti *TrackInfo, mi *MediaInfo, path string) rangeid.TrackID {
	if lang, err := mi.TrackLang(path, num); err == nil {
		_ = lang
	}
	return rangeid.NumTrackID(num)
}

func attachIDContains(have, want rangeid.AttachID) bool { return have.Contains(want) }

func attachSelectorSave(sel selector.Selector[rangeid.AttachID], id rangeid.AttachID) bool {
	return selector.Save(sel, id, attachIDContains)
}
