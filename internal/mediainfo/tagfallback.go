package mediainfo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// audioTagExt is the set of audio-only containers whose track title this
// core reads via dhowden/tag rather than mkvmerge, since mkvmerge's
// listing for these formats rarely carries a usable track title (§4.2
// DOMAIN STACK: "Fallback ti_name/ti_lang builder for audio-only media").
var audioTagExt = map[string]bool{
	".mka": true, ".mp3": true, ".flac": true, ".ogg": true, ".m4a": true,
}

// tagTitle reads the container's ID3/Vorbis-comment/MP4 Title tag, used as
// a TrackName fallback when the mkvmerge listing supplied none (§4.2).
func tagTitle(path string) (string, bool) {
	if !audioTagExt[strings.ToLower(filepath.Ext(path))] {
		return "", false
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", false
	}
	title := strings.TrimSpace(m.Title())
	if title == "" {
		return "", false
	}
	return title, true
}
