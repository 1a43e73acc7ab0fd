// Package retiming implements the linked-segment subtitle retiming engine
// (§4.6): given a base video whose matroska chapters reference external
// segment UIDs, it computes chapter-part boundaries, locates the nearest
// I-frame time for each boundary via ffprobe, and re-times external
// SRT/SSA/VTT subtitle files so their concatenation matches the retimed
// video's timeline.
//
// Grounded on original_source/src/types/retiming/new.rs (Retiming::try_new:
// base/track/chapters discovery, chapter-to-part coalescing, the
// three-candidate nearest-I-frame heuristic) and retiming/subs.rs (per-part
// subtitle line retiming). §9's "Open question — retiming nearest-I-frame
// policy" directs us to preserve the heuristic literally even though its
// motivation is undocumented.
package retiming

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
	"github.com/nujievik/mux-media-sub000/internal/tools"
	"github.com/nujievik/mux-media-sub000/internal/trackorder"
)

// Chapter is one matroska ChapterAtom read off the base video (§3
// "Retiming plan ... vector of Chapter").
type Chapter struct {
	Start time.Duration
	End   time.Duration
	UID   []byte
}

// Part is one contiguous run of chapters sharing the same (possibly nil)
// linked-segment UID, with its resolved retiming anchors (§3 "Part").
type Part struct {
	IStartChp   int
	IEndChp     int
	ExternalSrc string // "" when the part has no linked segment
	Start       time.Duration
	End         time.Duration
	StartOffset float64 // seconds
	EndOffset   float64 // seconds
}

// Plan is the full retiming plan for one group's mux run: the base video,
// its video track number, the chapters read off it, and the coalesced
// parts.
type Plan struct {
	Base     string
	Track    uint64
	Chapters []Chapter
	Parts    []Part
}

// acceptVideoOffset is the playable-duration-acceptance shortcut of
// try_nearest_time_offset: when the source's total playable duration is
// already within this many seconds of the target, skip the I-frame probes
// and use the duration directly.
const acceptVideoOffset = 10.0 * float64(time.Second)

// BuildPlan resolves the linked-segment retiming plan for order, or the
// [muxerr.OkExit] sentinel when retiming does not apply: a non-matroska
// muxer, --no-linked, or no video track in order carries a chaptered
// linked segment (§4.6 "Applicability").
func BuildPlan(mi *mediainfo.MediaInfo, cfg *config.Config, order []trackorder.OrderItem) (*Plan, error) {
	if !cfg.Muxer.IsDefault() || cfg.Retiming.NoLinked {
		return nil, muxerr.OkExitf("retiming not applicable: non-matroska muxer or --no-linked")
	}

	base, track, chapterIdx, err := findLinkedVideo(mi, order)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(base)
	mat, err := mi.Matroska(base)
	if err != nil {
		return nil, err
	}
	_ = chapterIdx

	chapters, err := buildChapters(mi, base, baseDir, mat.Chapters)
	if err != nil {
		return nil, err
	}

	parts, err := buildParts(mi, base, baseDir, chapters)
	if err != nil {
		return nil, err
	}

	return &Plan{Base: base, Track: track, Chapters: chapters, Parts: parts}, nil
}

func findLinkedVideo(mi *mediainfo.MediaInfo, order []trackorder.OrderItem) (string, uint64, int, error) {
	for _, item := range order {
		if item.Type != mediainfo.TrackVideo {
			break // order is type-sorted: video items are a contiguous prefix
		}
		mat, err := mi.Matroska(item.Media)
		if err != nil {
			continue
		}
		for i, chp := range mat.Chapters {
			if len(chp.UID) > 0 {
				return item.Media, item.Track, i, nil
			}
		}
	}
	return "", 0, 0, muxerr.OkExitf("not found any linked video")
}

func buildChapters(mi *mediainfo.MediaInfo, base, baseDir string, raw []mediainfo.MatroskaChapter) ([]Chapter, error) {
	out := make([]Chapter, len(raw))
	for i, c := range raw {
		start := time.Duration(c.StartNS)
		if c.HasEnd {
			out[i] = Chapter{Start: start, End: time.Duration(c.EndNS), UID: c.UID}
			continue
		}
		if j := nextWithSameUID(raw, i); j >= 0 {
			out[i] = Chapter{Start: start, End: time.Duration(raw[j].StartNS), UID: c.UID}
			continue
		}
		var dur time.Duration
		var err error
		if len(c.UID) > 0 {
			src := mi.FindExternalSegment(baseDir, c.UID)
			if src == "" {
				return nil, muxerr.Newf("not found external src for chapter %d", i)
			}
			dur, err = mi.PlayableDuration(src)
		} else {
			dur, err = mi.PlayableDuration(base)
		}
		if err != nil {
			return nil, err
		}
		out[i] = Chapter{Start: start, End: dur, UID: c.UID}
	}
	return out, nil
}

func nextWithSameUID(cs []mediainfo.MatroskaChapter, i int) int {
	for j := i + 1; j < len(cs); j++ {
		if bytesEqual(cs[j].UID, cs[i].UID) {
			return j
		}
	}
	return -1
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

func buildParts(mi *mediainfo.MediaInfo, base, baseDir string, chapters []Chapter) ([]Part, error) {
	var parts []Part
	i := 0
	for i < len(chapters) {
		uid := chapters[i].UID
		iEnd := i
		for j := i + 1; j < len(chapters); j++ {
			if bytesEqual(chapters[j].UID, uid) {
				iEnd = j
			} else {
				break
			}
		}

		externalSrc := ""
		if len(uid) > 0 {
			externalSrc = mi.FindExternalSegment(baseDir, uid)
		}
		src := base
		if externalSrc != "" {
			src = externalSrc
		}

		start, startOff, err := nearestTimeOffset(mi, src, chapters[i].Start)
		if err != nil {
			return nil, err
		}
		end, endOff, err := nearestTimeOffset(mi, src, chapters[iEnd].End)
		if err != nil {
			return nil, err
		}

		parts = append(parts, Part{
			IStartChp: i, IEndChp: iEnd,
			ExternalSrc: externalSrc,
			Start:       start, End: end,
			StartOffset: startOff, EndOffset: endOff,
		})
		i = iEnd + 1
	}
	return parts, nil
}

// nearestTimeOffset implements try_nearest_time_offset literally: accept
// the playable duration directly when within acceptVideoOffset of target;
// otherwise probe the I-frame nearest target, the I-frame nearest the
// mirrored time (2*target - first), and the playable duration, and take
// whichever of the three is closest to target.
func nearestTimeOffset(mi *mediainfo.MediaInfo, src string, target time.Duration) (time.Duration, float64, error) {
	duration, err := mi.PlayableDuration(src)
	if err != nil {
		return 0, 0, err
	}

	offsetDuration := float64(duration - target)
	if abs(offsetDuration) <= acceptVideoOffset {
		return duration, (duration - target).Seconds(), nil
	}

	first, err := nearestIFrame(mi, src, target)
	if err != nil {
		return 0, 0, err
	}
	mirrored := 2*target - first
	second, err := nearestIFrame(mi, src, mirrored)
	if err != nil {
		return 0, 0, err
	}

	best := first
	bestDiff := abs(float64(first - target))
	if d := abs(float64(second - target)); d < bestDiff {
		best, bestDiff = second, d
	}
	if d := abs(float64(duration - target)); d < bestDiff {
		best, bestDiff = duration, d
	}
	return best, (best - target).Seconds(), nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// nearestIFrame runs `ffprobe -select_streams v:0 -read_intervals
// T%+0.000001 -show_entries frame=pict_type,pts_time -of csv` and parses
// the pts_time of the first reported frame (§6 "ffprobe ... nearest
// I-frame lookup").
func nearestIFrame(mi *mediainfo.MediaInfo, src string, target time.Duration) (time.Duration, error) {
	runner := mi.ToolsRunner()
	secs := target.Seconds()
	out, err := runner.Run(context.Background(), tools.Ffprobe,
		"-select_streams", "v:0",
		"-read_intervals", strconv.FormatFloat(secs, 'f', 0, 64)+"%+0.000001",
		"-show_entries", "frame=pict_type,pts_time",
		"-of", "csv", src)
	if err != nil {
		return 0, muxerr.Newf("not found I frame: %v", err)
	}
	line := strings.SplitN(strings.TrimSpace(out), "\n", 2)[0]
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return 0, muxerr.New("not found I frame")
	}
	s, perr := strconv.ParseFloat(fields[2], 64)
	if perr != nil {
		return 0, muxerr.Wrap("parse pts_time", perr)
	}
	return time.Duration(s * float64(time.Second)), nil
}
