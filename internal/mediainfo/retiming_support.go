package mediainfo

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nujievik/mux-media-sub000/internal/muxerr"
	"github.com/nujievik/mux-media-sub000/internal/tools"
)

// Matroska returns the cached matroska header for path, inserting it first
// if necessary. Used by the retiming engine to read chapters (§4.6).
func (mi *MediaInfo) Matroska(path string) (*MatroskaInfo, error) {
	fc := mi.cache.entry(path)
	if fc.Matroska.IsCached() {
		return fc.Matroska.value, nil
	}
	if err := mi.TryInsert(path); err != nil {
		return nil, err
	}
	if !fc.Matroska.IsCached() {
		return nil, muxerr.WithKind(muxerr.NotRecognizedMedia, "no matroska header for "+path)
	}
	return fc.Matroska.value, nil
}

// PlayableDuration resolves the playable duration of path (§4.6 "playable
// duration"): the matroska header's Duration when available, else an
// `ffprobe -show_entries format=duration` probe, matching the spec's
// "MIPlayableDuration" field used both for chapter-end inference and the
// retiming engine's duration-acceptance shortcut.
func (mi *MediaInfo) PlayableDuration(path string) (time.Duration, error) {
	if isMatroskaExt(path) {
		if mat, err := mi.Matroska(path); err == nil && mat.DurationNS > 0 {
			return time.Duration(mat.DurationNS), nil
		}
	}
	out, err := mi.tools.Run(context.Background(), tools.Ffprobe,
		"-v", "error", "-show_entries", "format=duration", "-of",
		"default=noprint_wrappers=1:nokey=1", path)
	if err != nil {
		return 0, err
	}
	secs, perr := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if perr != nil {
		return 0, muxerr.Wrap("parse ffprobe duration", perr)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// FindExternalSegment searches dir (non-recursively) for a matroska file
// whose own SegmentUID equals uid, used to resolve a chapter's linked
// segment (§4.6 "Resolve external_src = find_external_segment(base_dir,
// uid)"). Returns "" if none is found.
func (mi *MediaInfo) FindExternalSegment(dir string, uid []byte) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isMatroskaExt(path) {
			continue
		}
		mat, err := mi.Matroska(path)
		if err != nil {
			continue
		}
		if len(mat.SegmentUID) > 0 && bytesEqual(mat.SegmentUID, uid) {
			return path
		}
	}
	return ""
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TrackCodec returns the codec id string of path's track num (§4.6
// subtitle-extension inference reads this to pick .ass/.srt/.vtt).
func (mi *MediaInfo) TrackCodec(path string, num uint64) (string, error) {
	tracks, err := mi.Tracks(path)
	if err != nil {
		return "", err
	}
	ti, ok := tracks[num]
	if !ok {
		return "", muxerr.Newf("no track %d in %s", num, path)
	}
	return ti.CodecID, nil
}
