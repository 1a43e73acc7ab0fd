package retiming

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
	"github.com/nujievik/mux-media-sub000/internal/tools"
	"github.com/nujievik/mux-media-sub000/internal/trackorder"
)

// subLine is the line model shared by the SRT/ASS/VTT readers and writers:
// every format reduces to [start,end] intervals plus free-form text/prefix.
type subLine struct {
	Start  time.Duration
	End    time.Duration
	Text   string
	Prefix string // ASS "Dialogue: 0,", VTT cue identifier, etc.
}

type subDoc struct {
	Ext    string // "srt" | "ass" | "vtt"
	Header string // preserved verbatim (ASS script info/styles, VTT "WEBVTT")
	Lines  []subLine
}

// codecExt maps a matroska/mkvmerge codec id to the container extension
// used when extracting a subtitle stream (§4.6 "Subtitle retiming").
func codecExt(codec string) string {
	switch codec {
	case "SubStationAlpha", "S_TEXT/ASS", "S_TEXT/SSA":
		return "ass"
	case "SubRip/SRT", "S_TEXT/UTF8":
		return "srt"
	case "WebVTT", "S_TEXT/WEBVTT":
		return "vtt"
	default:
		return "srt"
	}
}

func extFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "ass", "ssa":
		return "ass"
	case "srt":
		return "srt"
	case "vtt":
		return "vtt"
	default:
		return ""
	}
}

// Apply walks order and produces a new order where every kept item carries
// a [trackorder.RetimedTrack]: non-subtitle items pass through trivially
// (single part, NoRetiming=true, original path), subtitle items are
// extracted/retimed per-part (§4.6). A subtitle track that fails to retime
// is dropped (warn-and-continue) unless cfg.ExitOnErr, per §4.5's
// "Post-retiming rebuild".
func Apply(mi *mediainfo.MediaInfo, cfg *config.Config, plan *Plan, order []trackorder.OrderItem, tempDir string, workerID int) ([]trackorder.OrderItem, error) {
	kept := make([]trackorder.OrderItem, 0, len(order))

	for i, item := range order {
		if item.Type != mediainfo.TrackSub {
			item.Retimed = &trackorder.RetimedTrack{
				Parts: []trackorder.RetimedPart{{Path: item.Media, NoRetiming: true}},
			}
			kept = append(kept, item)
			continue
		}

		rtm, err := retimeSub(mi, cfg, plan, item, i, tempDir, workerID)
		if err != nil {
			if cfg.ExitOnErr {
				return nil, err
			}
			continue
		}
		item.Retimed = rtm
		kept = append(kept, item)
	}

	if len(kept) == 0 {
		return nil, muxerr.WithKind(muxerr.NotSavedAnyTrack, "retiming dropped every track")
	}
	if len(kept) == len(order) {
		return kept, nil
	}
	return renumber(kept), nil
}

func renumber(items []trackorder.OrderItem) []trackorder.OrderItem {
	numbers := map[string]uint64{}
	var next uint64
	out := make([]trackorder.OrderItem, len(items))
	for i, it := range items {
		n, ok := numbers[it.Media]
		if !ok {
			n = next
			numbers[it.Media] = n
			next++
		}
		it.Number = n
		it.IsFirstEntry = !ok
		out[i] = it
	}
	return out
}

// chaptersNonUIDPrefix sums the nominal duration of every chapter before i
// that carries no linked-segment UID (the running "local timeline" length),
// mirroring chapters_nonuid in original_source/src/types/retiming/subs.rs.
func chaptersNonUIDPrefix(chapters []Chapter, i int) float64 {
	var sum float64
	for j := 0; j < i && j < len(chapters); j++ {
		if len(chapters[j].UID) == 0 {
			sum += (chapters[j].End - chapters[j].Start).Seconds()
		}
	}
	return sum
}

// partsNonUIDPrefix is the Part-level analogue of chaptersNonUIDPrefix.
func partsNonUIDPrefix(chapters []Chapter, parts []Part, iPart int) float64 {
	var sum float64
	for j := 0; j < iPart && j < len(parts); j++ {
		uid := chapters[parts[j].IStartChp].UID
		if len(uid) == 0 {
			sum += (parts[j].End - parts[j].Start).Seconds()
		}
	}
	return sum
}

func retimeSub(mi *mediainfo.MediaInfo, cfg *config.Config, plan *Plan, item trackorder.OrderItem, idx int, tempDir string, workerID int) (*trackorder.RetimedTrack, error) {
	if item.Media == plan.Base && len(plan.Parts) == 1 && trivialPart(plan.Parts[0]) {
		return &trackorder.RetimedTrack{Parts: []trackorder.RetimedPart{{Path: item.Media, NoRetiming: true}}}, nil
	}

	isBase := item.Media == plan.Base
	var ext string
	if isBase {
		codec, _ := mi.TrackCodec(item.Media, item.Track)
		ext = codecExt(codec)
	} else {
		if e := extFromPath(item.Media); e != "" {
			ext = e
		} else {
			codec, _ := mi.TrackCodec(item.Media, item.Track)
			ext = codecExt(codec)
		}
	}

	var doc *subDoc
	var err error
	if isBase {
		doc, err = extractAndParseBase(mi, plan, item.Track, ext, tempDir, workerID)
	} else {
		doc, err = parseFile(item.Media, ext)
	}
	if err != nil && ext != "srt" {
		ext = "srt"
		if isBase {
			doc, err = extractAndParseBase(mi, plan, item.Track, ext, tempDir, workerID)
		} else {
			doc, err = parseFile(item.Media, ext)
		}
	}
	if err != nil {
		return nil, err
	}

	var retimedLines []subLine
	if isBase {
		retimedLines = retimeAgainstParts(doc.Lines, plan)
	} else {
		retimedLines = retimeAgainstChapters(doc.Lines, plan)
	}
	if len(retimedLines) == 0 {
		return nil, muxerr.WithKind(muxerr.NotSavedAnyTrack, "not saved any subtitle line")
	}

	dest := filepath.Join(tempDir, fmt.Sprintf("%d-sub-%d.%s", workerID, idx, ext))
	out := &subDoc{Ext: ext, Header: doc.Header, Lines: retimedLines}
	if err := writeSub(out, dest); err != nil {
		return nil, err
	}

	return &trackorder.RetimedTrack{Parts: []trackorder.RetimedPart{{Path: dest, NoRetiming: false}}}, nil
}

func trivialPart(p Part) bool { return p.StartOffset == 0 && p.EndOffset == 0 && p.ExternalSrc == "" }

func extractAndParseBase(mi *mediainfo.MediaInfo, plan *Plan, track uint64, ext, tempDir string, workerID int) (*subDoc, error) {
	dest := filepath.Join(tempDir, fmt.Sprintf("%d-sub-base-%d.%s", workerID, track, ext))
	_ = os.Remove(dest)
	if err := extractTrack(mi.ToolsRunner(), plan.Base, track, dest); err != nil {
		return nil, err
	}
	return parseFile(dest, ext)
}

func extractTrack(runner *tools.Runner, src string, track uint64, dest string) error {
	_, err := runner.Run(context.Background(), tools.Ffmpeg, "-i", src, "-map", fmt.Sprintf("0:%d", track), dest)
	return err
}

// retimeAgainstParts retimes the base subtitle file: each part's lines are
// those whose [start,end] intersects [part.Start,part.End], shifted by
// parts_nonuid(part) (no per-chapter split needed since the base file's
// own timeline already matches the chapter boundaries).
func retimeAgainstParts(lines []subLine, plan *Plan) []subLine {
	var out []subLine
	for iPart, p := range plan.Parts {
		offset := partsNonUIDPrefix(plan.Chapters, plan.Parts, iPart)
		for _, l := range intersecting(lines, p.Start, p.End) {
			out = append(out, shift(l, offset))
		}
	}
	return out
}

// retimeAgainstChapters retimes an external subtitle file against every
// chapter of the part it belongs to, per original_source's get_idxs_offset
// (subs.rs): each chapter contributes its own target window and offset.
func retimeAgainstChapters(lines []subLine, plan *Plan) []subLine {
	var out []subLine
	for iPart, p := range plan.Parts {
		for iChp := p.IStartChp; iChp <= p.IEndChp; iChp++ {
			chp := plan.Chapters[iChp]
			chpNonUID := chaptersNonUIDPrefix(plan.Chapters, iChp)

			endOffset := p.StartOffset
			if iChp == p.IEndChp {
				endOffset = p.EndOffset
			}

			trgStart := time.Duration((chp.Start.Seconds() + p.StartOffset + chpNonUID) * float64(time.Second))
			trgEnd := time.Duration((chp.End.Seconds() + endOffset + chpNonUID) * float64(time.Second))

			matched := intersecting(lines, trgStart, trgEnd)
			if len(matched) == 0 {
				continue
			}
			offset := partsNonUIDPrefix(plan.Chapters, plan.Parts, iPart) - chpNonUID
			for _, l := range matched {
				out = append(out, shift(l, offset))
			}
		}
	}
	return out
}

func intersecting(lines []subLine, start, end time.Duration) []subLine {
	var out []subLine
	for _, l := range lines {
		if l.Start > end || l.End < start {
			continue
		}
		out = append(out, l)
	}
	return out
}

func shift(l subLine, offsetSeconds float64) subLine {
	d := time.Duration(offsetSeconds * float64(time.Second))
	l.Start += d
	l.End += d
	return l
}

// --- parsing / writing ---

func parseFile(path, ext string) (*subDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, muxerr.Wrap("read subtitle file", err)
	}
	text := strings.TrimPrefix(strings.TrimSpace(string(data)), "﻿")
	switch ext {
	case "ass":
		return parseASS(text)
	case "vtt":
		return parseVTT(text)
	default:
		return parseSRT(text)
	}
}

func writeSub(doc *subDoc, dest string) error {
	switch doc.Ext {
	case "ass":
		return writeASS(doc, dest)
	case "vtt":
		return writeVTT(doc, dest)
	default:
		return writeSRT(doc, dest)
	}
}

var srtTimeRe = regexp.MustCompile(`(\d+):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d+):(\d{2}):(\d{2})[,.](\d{3})`)

func parseSRTTime(h, m, s, ms string) time.Duration {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	mss, _ := strconv.Atoi(ms)
	return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second + time.Duration(mss)*time.Millisecond
}

func formatSRTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func parseSRT(text string) (*subDoc, error) {
	var lines []subLine
	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		raw := strings.SplitN(b, "\n", 3)
		var timeLine, body string
		if len(raw) >= 2 && srtTimeRe.MatchString(raw[1]) {
			timeLine, body = raw[1], strings.Join(raw[2:], "\n")
		} else if len(raw) >= 1 && srtTimeRe.MatchString(raw[0]) {
			timeLine, body = raw[0], strings.Join(raw[1:], "\n")
		} else {
			continue
		}
		m := srtTimeRe.FindStringSubmatch(timeLine)
		if m == nil {
			continue
		}
		lines = append(lines, subLine{
			Start: parseSRTTime(m[1], m[2], m[3], m[4]),
			End:   parseSRTTime(m[5], m[6], m[7], m[8]),
			Text:  body,
		})
	}
	if len(lines) == 0 {
		return nil, muxerr.New("not parsed any srt line")
	}
	return &subDoc{Ext: "srt", Lines: lines}, nil
}

func writeSRT(doc *subDoc, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return muxerr.Wrap("create srt output", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i, l := range doc.Lines {
		fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n", i+1, formatSRTTime(l.Start), formatSRTTime(l.End), l.Text)
	}
	return w.Flush()
}

var assDialogueRe = regexp.MustCompile(`^(Dialogue|Comment):\s*(\d+),([^,]+),([^,]+),(.*)$`)
var assTimeRe = regexp.MustCompile(`(\d+):(\d{2}):(\d{2})[.:](\d{2,3})`)

func parseASSTime(s string) time.Duration {
	m := assTimeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	frac := m[4]
	for len(frac) < 3 {
		frac += "0"
	}
	ms, _ := strconv.Atoi(frac[:3])
	return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(sec)*time.Second + time.Duration(ms)*time.Millisecond
}

func formatASSTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	cs := d / (10 * time.Millisecond)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func parseASS(text string) (*subDoc, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var header strings.Builder
	var out []subLine
	inEvents := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.EqualFold(trimmed, "[Events]") {
			inEvents = true
			header.WriteString(l)
			header.WriteByte('\n')
			continue
		}
		m := assDialogueRe.FindStringSubmatch(l)
		if inEvents && m != nil {
			rest := strings.SplitN(m[5], ",", 6)
			text := ""
			if len(rest) == 6 {
				text = rest[5]
			}
			out = append(out, subLine{
				Start:  parseASSTime(m[3]),
				End:    parseASSTime(m[4]),
				Text:   l,
				Prefix: m[1] + ": " + m[2],
			})
			_ = text
			continue
		}
		header.WriteString(l)
		header.WriteByte('\n')
	}
	if len(out) == 0 {
		return nil, muxerr.New("not parsed any ass dialogue line")
	}
	return &subDoc{Ext: "ass", Header: header.String(), Lines: out}, nil
}

func writeASS(doc *subDoc, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return muxerr.Wrap("create ass output", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprint(w, doc.Header)
	for _, l := range doc.Lines {
		raw := assDialogueRe.FindStringSubmatch(l.Text)
		if raw == nil {
			continue
		}
		fmt.Fprintf(w, "%s: %s,%s,%s,%s\n", raw[1], raw[2], formatASSTime(l.Start), formatASSTime(l.End), raw[5])
	}
	return w.Flush()
}

var vttTimeRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})\.(\d{3})(.*)`)

func parseVTT(text string) (*subDoc, error) {
	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var out []subLine
	header := "WEBVTT\n"
	for i, b := range blocks {
		b = strings.TrimSpace(b)
		if i == 0 && strings.HasPrefix(b, "WEBVTT") {
			continue
		}
		if b == "" {
			continue
		}
		raw := strings.Split(b, "\n")
		idx := 0
		var timeLine string
		if len(raw) > 0 && vttTimeRe.MatchString(raw[0]) {
			timeLine = raw[0]
		} else if len(raw) > 1 && vttTimeRe.MatchString(raw[1]) {
			timeLine = raw[1]
			idx = 1
		} else {
			continue
		}
		m := vttTimeRe.FindStringSubmatch(timeLine)
		if m == nil {
			continue
		}
		body := strings.Join(raw[idx+1:], "\n")
		out = append(out, subLine{
			Start: parseSRTTime(m[1], m[2], m[3], m[4]),
			End:   parseSRTTime(m[5], m[6], m[7], m[8]),
			Text:  body,
		})
	}
	if len(out) == 0 {
		return nil, muxerr.New("not parsed any vtt cue")
	}
	return &subDoc{Ext: "vtt", Header: header, Lines: out}, nil
}

func formatVTTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func writeVTT(doc *subDoc, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return muxerr.Wrap("create vtt output", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprint(w, "WEBVTT\n\n")
	for _, l := range doc.Lines {
		fmt.Fprintf(w, "%s --> %s\n%s\n\n", formatVTTTime(l.Start), formatVTTTime(l.End), l.Text)
	}
	return w.Flush()
}
