package muxer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/selector"
	"github.com/nujievik/mux-media-sub000/internal/trackorder"
)

// buildArgs assembles the mkvmerge argument list for one group's resolved
// TrackOrder: the output flag first, then one source block per distinct
// file in TrackOrder.Number order (§4.7 "arg assembly"). Each block holds
// the per-track disposition/name/language flags, then the per-file
// track-selection flags (-d/-a/-s/-b, restricted to the saved track
// numbers of that file), then the attachment flags, then the file itself.
//
// Grounded on the teacher's internal/ffmpeg and the Rust source's
// `original_source/src/run/packet.rs` arg-builder shape (flags precede
// their file, mkvmerge reads multiple input files left to right).
func buildArgs(mi *mediainfo.MediaInfo, cfg *config.Config, upmost string, order []trackorder.OrderItem, flags []trackorder.Flags, outPath string) ([]string, error) {
	args := []string{"-o", outPath}

	type fileBlock struct {
		src     string
		media   string
		indices []int // indices into order/flags for this file's tracks
	}
	blocks := map[string]*fileBlock{}
	var blockOrder []string

	for i, item := range order {
		src := item.Media
		if item.Retimed != nil && len(item.Retimed.Parts) > 0 {
			src = item.Retimed.Parts[0].Path
		}
		fb, ok := blocks[src]
		if !ok {
			fb = &fileBlock{src: src, media: item.Media}
			blocks[src] = fb
			blockOrder = append(blockOrder, src)
		}
		fb.indices = append(fb.indices, i)
	}

	for _, src := range blockOrder {
		fb := blocks[src]

		byType := map[mediainfo.TrackType][]uint64{}
		for _, idx := range fb.indices {
			item := order[idx]
			byType[item.Type] = append(byType[item.Type], item.Track)

			f := flags[idx]
			args = append(args, perTrackFlags(item.Track, f)...)

			if name, err := mi.TrackName(item.Media, item.Track); err == nil && name != "" {
				args = append(args, "--track-name", trackArg(item.Track, name))
			}
			if lang, err := mi.TrackLang(item.Media, item.Track); err == nil {
				args = append(args, "--language", trackArg(item.Track, string(lang)))
			}
		}

		args = append(args, selectorFlags("-d", byType[mediainfo.TrackVideo])...)
		args = append(args, selectorFlags("-a", byType[mediainfo.TrackAudio])...)
		args = append(args, selectorFlags("-s", byType[mediainfo.TrackSub])...)
		args = append(args, selectorFlags("-b", byType[mediainfo.TrackButton])...)
		args = append(args, attachFlags(mi, cfg, upmost, fb.media)...)

		args = append(args, src)
	}

	return args, nil
}

func trackArg(num uint64, v string) string {
	return strconv.FormatUint(num, 10) + ":" + v
}

func perTrackFlags(num uint64, f trackorder.Flags) []string {
	var out []string
	if f.Default != nil {
		out = append(out, "--default-track", trackArg(num, boolStr(*f.Default)))
	}
	if f.Forced != nil {
		out = append(out, "--forced-track", trackArg(num, boolStr(*f.Forced)))
	}
	if f.Enabled != nil {
		out = append(out, "--track-enabled-flag", trackArg(num, boolStr(*f.Enabled)))
	}
	return out
}

func boolStr(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// selectorFlags builds mkvmerge's -a/-d/-s/-b restriction flag: an explicit
// comma-joined track-number list when any tracks of that type were kept,
// or the matching upper-case flag (-D/-A/-S/-B, drop every track of that
// type) when the type has no kept tracks, so mkvmerge doesn't default to
// "keep all".
func selectorFlags(flag string, nums []uint64) []string {
	if len(nums) == 0 {
		return []string{strings.ToUpper(flag)}
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return []string{flag, strings.Join(parts, ",")}
}

// attachFlags builds mkvmerge's -m/-M attachment-selection flag for one
// source file: -M drops every attachment; -m <ids> keeps only the
// attachment UIDs the configured Font/Other selectors save (§3
// "AttachSelectors").
func attachFlags(mi *mediainfo.MediaInfo, cfg *config.Config, upmost, media string) []string {
	attachs, err := mi.Attachs(media)
	if err != nil || len(attachs) == 0 {
		return nil
	}
	targets, err := mi.Targets(media, upmost)
	if err != nil {
		return nil
	}
	fontSel := cfg.FontSelector(targets[:])
	otherSel := cfg.OtherSelector(targets[:])
	contains := func(have, want rangeid.AttachID) bool { return have.Contains(want) }

	var kept []rangeid.AttachID
	for id, ai := range attachs {
		sel := otherSel
		if ai.IsFont {
			sel = fontSel
		}
		if selector.Save(sel, id, contains) {
			kept = append(kept, id)
		}
	}

	if len(kept) == 0 {
		return []string{"-M"}
	}
	if len(kept) == len(attachs) {
		return nil
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Num() < kept[j].Num() })
	parts := make([]string, len(kept))
	for i, id := range kept {
		parts[i] = strconv.FormatUint(id.Num(), 10)
	}
	return []string{"-m", strings.Join(parts, ",")}
}
