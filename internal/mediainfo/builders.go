package mediainfo

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/target"
	"github.com/nujievik/mux-media-sub000/internal/tools"
)

var matroskaExt = map[string]bool{".mkv": true, ".mka": true, ".mks": true, ".webm": true}

func isMatroskaExt(path string) bool {
	return matroskaExt[strings.ToLower(filepath.Ext(path))]
}

func errNoTracks(path string) error {
	return muxerr.WithKind(muxerr.NotRecognizedMedia, "no tracks found in "+path)
}

// TryInsert attempts to populate the cache for path: matroska header parse
// first, mkvmerge -i fallback (§4.2). Returns the classification error
// (NotRecognizedMedia) if both fail; does nothing if already cached.
func (mi *MediaInfo) TryInsert(path string) error {
	fc := mi.cache.entry(path)
	if fc.Matroska.IsCached() || fc.MkvmergeI.IsCached() {
		return nil
	}

	if isMatroskaExt(path) {
		if mat, err := mi.buildMatroska(path); err == nil {
			fc.Matroska = cached(mat)
			mi.hydrateFromMatroska(path, fc, mat)
			return nil
		}
	}

	if isMP4Ext(path) {
		if tracks, durationNS, err := mi.buildMP4(path); err == nil {
			mi.hydrateFromMP4(fc, tracks, durationNS)
			return nil
		}
	}

	lines, err := mi.buildMkvmergeI(path)
	if err != nil {
		fc.MkvmergeI = failed[[]string](err)
		return muxerr.WithKind(muxerr.NotRecognizedMedia, "not recognized media: "+path)
	}
	fc.MkvmergeI = cached(lines)
	mi.hydrateFromMkvmergeLines(path, fc, lines)
	return nil
}

func (mi *MediaInfo) buildMkvmergeI(path string) ([]string, error) {
	out, err := mi.tools.Run(context.Background(), tools.Mkvmerge, "-i", path)
	if err != nil {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}

var reMkvmergeTrack = regexp.MustCompile(`Track ID (\d+):\s*(\w+)\s*\(([^)]*)\)`)
var reMkvmergeAttach = regexp.MustCompile(`Attachment ID (\d+):.*type '([^']*)'.*name '([^']*)'`)

// hydrateFromMkvmergeLines parses the textual `mkvmerge -i` summary into
// per-track/per-attachment info, mirroring original_source's
// build_tracks_info / build_attachs_info regexes over the same output.
func (mi *MediaInfo) hydrateFromMkvmergeLines(path string, fc *fileCache, lines []string) {
	tracks := make(map[uint64]*TrackInfo)
	attachs := make(map[rangeid.AttachID]*AttachInfo)
	counters := map[TrackType]int{}

	for _, line := range lines {
		if m := reMkvmergeTrack.FindStringSubmatch(line); m != nil {
			num, _ := strconv.ParseUint(m[1], 10, 64)
			kind := parseMkvmergeKind(m[2])
			ti := &TrackInfo{Number: num, TrackType: kind, Enabled: true, CodecID: m[3]}
			ti.LacedIdx = counters[kind]
			counters[kind]++
			ti.Name = CacheState[string]{}
			ti.Lang = CacheState[langcode.Code]{}
			tracks[num] = ti
			continue
		}
		if m := reMkvmergeAttach.FindStringSubmatch(line); m != nil {
			num, _ := strconv.ParseUint(m[1], 10, 64)
			ai := &AttachInfo{ID: rangeid.NumAttachID(num), MimeType: m[2], Name: m[3]}
			ai.IsFont = isFontMime(ai.MimeType, ai.Name)
			attachs[ai.ID] = ai
		}
	}

	fc.Tracks = cached(tracks)
	fc.Attachs = cached(attachs)
	_ = path
}

func parseMkvmergeKind(s string) TrackType {
	switch strings.ToLower(s) {
	case "video":
		return TrackVideo
	case "audio":
		return TrackAudio
	case "subtitles":
		return TrackSub
	case "buttons":
		return TrackButton
	default:
		return TrackAudio
	}
}

func (mi *MediaInfo) hydrateFromMatroska(path string, fc *fileCache, mat *MatroskaInfo) {
	tracks := make(map[uint64]*TrackInfo)
	attachs := make(map[rangeid.AttachID]*AttachInfo)
	counters := map[TrackType]int{}

	for _, t := range mat.Tracks {
		ti := t.toTrackInfo()
		ti.LacedIdx = counters[ti.TrackType]
		counters[ti.TrackType]++
		tracks[t.Number] = ti
	}
	for _, a := range mat.Attachs {
		attachs[rangeid.NumAttachID(a.UID)] = a.toAttachInfo(a.UID)
	}

	fc.Tracks = cached(tracks)
	fc.Attachs = cached(attachs)
	_ = path
}

// Tracks returns the per-track info map for path, inserting it first if
// necessary.
func (mi *MediaInfo) Tracks(path string) (map[uint64]*TrackInfo, error) {
	fc := mi.cache.entry(path)
	if fc.Tracks.IsCached() {
		return fc.Tracks.value, nil
	}
	if err := mi.TryInsert(path); err != nil {
		return nil, err
	}
	return fc.Tracks.value, nil
}

// Attachs returns the per-attachment info map for path.
func (mi *MediaInfo) Attachs(path string) (map[rangeid.AttachID]*AttachInfo, error) {
	fc := mi.cache.entry(path)
	if fc.Attachs.IsCached() {
		return fc.Attachs.value, nil
	}
	if err := mi.TryInsert(path); err != nil {
		return nil, err
	}
	return fc.Attachs.value, nil
}

// PathTail builds the portion of path's stem after the group seed stem,
// e.g. seed "Show.S01E01" + path "Show.S01E01.ja.ass" -> ".ja".
func (mi *MediaInfo) PathTail(path string) (string, error) {
	fc := mi.cache.entry(path)
	if fc.PathTail.IsCached() {
		return fc.PathTail.value, nil
	}
	stem := filepath.Base(path)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	seed := mi.cache.stem.value
	tail := osStrTail(seed, stem)
	fc.PathTail = cached(tail)
	return tail, nil
}

// osStrTail returns the suffix of full after removing the leading prefix,
// or full unchanged if prefix does not lead it (mirrors os_helpers::os_str_tail).
func osStrTail(prefix, full string) string {
	if strings.HasPrefix(full, prefix) {
		return full[len(prefix):]
	}
	return full
}

// RelativeUpmost builds the directory path of path relative to the
// group's upmost (root) discovery directory.
func (mi *MediaInfo) RelativeUpmost(path, upmost string) (string, error) {
	fc := mi.cache.entry(path)
	if fc.RelUpmost.IsCached() {
		return fc.RelUpmost.value, nil
	}
	parent := filepath.Dir(path)
	rel := osStrTail(upmost, parent)
	fc.RelUpmost = cached(rel)
	return rel, nil
}

// wordsOf splits s on non-alphanumeric runs, used by the name/lang
// fallback chain (path_tail -> relative_upmost -> literal fallback).
func wordsOf(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// TargetGroup classifies path by its first video/audio/sub track. A file
// whose first such track is a subtitle is GroupSub; the "signs" word scan
// (name/path-tail/relative-upmost) runs for it but does not change the
// group, since target.Group has no separate signs group.
func (mi *MediaInfo) TargetGroup(path, upmost string) (target.Group, error) {
	fc := mi.cache.entry(path)
	if fc.TargetGroup.IsCached() {
		return fc.TargetGroup.value, nil
	}

	tracks, err := mi.Tracks(path)
	if err != nil {
		return 0, err
	}

	order := []TrackType{TrackVideo, TrackAudio, TrackSub}
	for _, tt := range order {
		for num, ti := range tracks {
			if ti.TrackType != tt {
				continue
			}
			var g target.Group
			switch tt {
			case TrackVideo:
				g = target.GroupVideo
			case TrackAudio:
				g = target.GroupAudio
			default:
				g = target.GroupSub
				if mi.looksLikeSigns(path, upmost, num) {
					g = target.GroupSub
				}
			}
			fc.TargetGroup = cached(g)
			return g, nil
		}
	}
	return 0, muxerr.WithKind(muxerr.NotRecognizedMedia, "no media track in "+path)
}

var signWords = map[string]bool{"signs": true, "songs": true, "sign": true, "song": true, "caption": true, "captions": true}

func (mi *MediaInfo) looksLikeSigns(path, upmost string, num uint64) bool {
	if name, err := mi.TrackName(path, num); err == nil {
		for _, w := range wordsOf(strings.ToLower(name)) {
			if signWords[w] {
				return true
			}
		}
	}
	if tail, err := mi.PathTail(path); err == nil {
		for _, w := range wordsOf(strings.ToLower(tail)) {
			if signWords[w] {
				return true
			}
		}
	}
	if rel, err := mi.RelativeUpmost(path, upmost); err == nil {
		for _, w := range wordsOf(strings.ToLower(rel)) {
			if signWords[w] {
				return true
			}
		}
	}
	return false
}

// Targets builds the [Path, Parent, Group] override-probe order for path
// (§4.3's "target(marker, targets)" uses this slice).
func (mi *MediaInfo) Targets(path, upmost string) ([3]target.Target, error) {
	fc := mi.cache.entry(path)
	if fc.Targets.IsCached() {
		return fc.Targets.value, nil
	}
	group, err := mi.TargetGroup(path, upmost)
	if err != nil {
		return [3]target.Target{}, err
	}
	abs, aerr := filepath.Abs(path)
	if aerr != nil {
		abs = path
	}
	t := [3]target.Target{
		target.FromPath(abs),
		target.FromPath(filepath.Dir(abs)),
		target.FromGroup(group),
	}
	fc.Targets = cached(t)
	return t, nil
}

// TrackName resolves a track's display name: mkvinfo/matroska-supplied
// name, else the audio tag title (tagTitle), else path_tail (if longer
// than two characters), else the parent directory's basename.
func (mi *MediaInfo) TrackName(path string, num uint64) (string, error) {
	tracks, err := mi.Tracks(path)
	if err != nil {
		return "", err
	}
	ti, ok := tracks[num]
	if !ok {
		return "", muxerr.Newf("no track %d in %s", num, path)
	}
	if ti.Name.IsCached() {
		return ti.Name.value, nil
	}

	if title, ok := tagTitle(path); ok {
		ti.Name = cached(title)
		return title, nil
	}
	if tail, err := mi.PathTail(path); err == nil && len(tail) > 2 {
		ti.Name = cached(tail)
		return tail, nil
	}
	parent := filepath.Base(filepath.Dir(path))
	ti.Name = cached(parent)
	return parent, nil
}

// TrackLang resolves a track's language: mkvinfo/matroska-supplied code,
// else the first recognizable code among path_tail's words, else Und.
// relative_upmost is not scanned.
func (mi *MediaInfo) TrackLang(path string, num uint64) (langcode.Code, error) {
	tracks, err := mi.Tracks(path)
	if err != nil {
		return langcode.Und, err
	}
	ti, ok := tracks[num]
	if !ok {
		return langcode.Und, muxerr.Newf("no track %d in %s", num, path)
	}
	if ti.Lang.IsCached() {
		return ti.Lang.value, nil
	}

	if tail, err := mi.PathTail(path); err == nil {
		for _, w := range wordsOf(tail) {
			if c, ok := langcode.Get(w); ok {
				ti.Lang = cached(c)
				return c, nil
			}
		}
	}
	ti.Lang = cached(langcode.Und)
	return langcode.Und, nil
}

// CharEncoding detects the text encoding of a subtitle-like file: UTF-8
// for matroska containers (matroska text is always UTF-8), else a crude
// BOM/ASCII-range sniff over the first 32 KiB.
func (mi *MediaInfo) CharEncoding(path string) (string, error) {
	fc := mi.cache.entry(path)
	if fc.CharEncoding.IsCached() {
		return fc.CharEncoding.value, nil
	}
	if isMatroskaExt(path) {
		fc.CharEncoding = cached("utf-8")
		return "utf-8", nil
	}
	enc := sniffEncoding(path)
	fc.CharEncoding = cached(enc)
	return enc, nil
}

const readLimit = 32 * 1024

func sniffEncoding(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "utf-8"
	}
	defer f.Close()
	buf := make([]byte, readLimit)
	n, _ := f.Read(buf)
	buf = buf[:n]

	switch {
	case len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF:
		return "utf-8"
	case len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE:
		return "utf-16le"
	case len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF:
		return "utf-16be"
	}
	for _, b := range buf {
		if b >= 0x80 {
			return "windows-1251"
		}
	}
	return "utf-8"
}

// SavedTracks applies the configured track selectors to classify which
// track numbers of path survive filtering, per kind, caching the result.
func (mi *MediaInfo) SavedTracks(path, upmost string, cfg *config.Config) (map[TrackType][]uint64, error) {
	fc := mi.cache.entry(path)
	if fc.SavedTracks.IsCached() {
		return fc.SavedTracks.value, nil
	}

	tracks, err := mi.Tracks(path)
	if err != nil {
		return nil, err
	}
	targets, err := mi.Targets(path, upmost)
	if err != nil {
		return nil, err
	}
	tgSlice := targets[:]

	out := map[TrackType][]uint64{}
	for num, ti := range tracks {
		var sel = selectorFor(cfg, ti.TrackType, tgSlice)
		id := trackIDFor(num, ti, mi, path)
		if selectorSave(sel, id) {
			out[ti.TrackType] = append(out[ti.TrackType], num)
		}
	}
	fc.SavedTracks = cached(out)
	return out, nil
}
