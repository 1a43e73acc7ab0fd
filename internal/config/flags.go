package config

import (
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/selector"
	"github.com/nujievik/mux-media-sub000/internal/target"
)

// flagSet is one pass of kingpin flag definitions, shared by the global
// parse and every --target-scoped segment. Grounded on the teacher's
// flat config.ParseFlags (one kingpin.New, one Parse call) extended with
// the scoping split below; the flag vocabulary itself (kingpin.v2) is
// grounded on marcopaganini-mkvtool/subtool.go.
type flagSet struct {
	app *kingpin.Application

	output   *string
	depth    *int
	skip     *[]string
	rng      *string
	locale   *string
	verbose  *[]bool
	quiet    *[]bool
	exitErr  *bool
	save     *bool
	jobs     *int
	muxer    *string
	noLinked *bool
	parts    *string
	solo     *bool

	audioTracks, subTracks, videoTracks, buttonTracks *string
	noAudio, noSub, noVideo, noButton                 *bool
	fontAttachs, otherAttachs                         *string
	noFonts, noOthers                                 *bool

	defaultFlag, forcedFlag, enabledFlag *string
	maxDefault, maxForced, maxEnabled    *string

	names *string
	langs *string

	mkvmerge, mkvinfo, mkvextract, ffmpeg, ffprobe *string

	input *string
}

func newFlagSet(name string) *flagSet {
	app := kingpin.New(name, "Batch matroska/mp4 multiplexer core")
	fs := &flagSet{app: app}

	fs.output = app.Flag("output", "Output directory").Short('o').String()
	fs.depth = app.Flag("depth", "Max recursion depth for input discovery").Default("3").Int()
	fs.skip = app.Flag("skip", "Glob pattern to prune from input discovery (repeatable)").Strings()
	fs.rng = app.Flag("range", "Limit input to a numeric range (\"a-b\", \"a-\", \"-b\", \"a\")").String()
	fs.locale = app.Flag("locale", "Override the detected locale language code").String()
	fs.verbose = app.Flag("verbose", "Increase verbosity (repeatable)").Short('v').Bools()
	fs.quiet = app.Flag("quiet", "Decrease verbosity (repeatable)").Short('q').Bools()
	fs.exitErr = app.Flag("exit-on-err", "Abort the whole run on the first recoverable error").Bool()
	fs.save = app.Flag("save-config", "Persist parsed argv as mux-media.json next to the output").Bool()
	fs.jobs = app.Flag("jobs", "Number of groups processed concurrently").Short('j').Default("1").Int()
	fs.muxer = app.Flag("muxer", "Muxing backend: mkvmerge or ffmpeg").Default("mkvmerge").Enum("mkvmerge", "ffmpeg")
	fs.noLinked = app.Flag("no-linked", "Disable linked-segment subtitle retiming").Bool()
	fs.parts = app.Flag("parts", "Glob restricting external-part discovery for retiming").String()
	fs.solo = app.Flag("solo", "Treat the input directory itself as a single group").Bool()

	fs.audioTracks = app.Flag("audio-tracks", "Comma-separated audio track ids to keep").String()
	fs.subTracks = app.Flag("sub-tracks", "Comma-separated subtitle track ids to keep").String()
	fs.videoTracks = app.Flag("video-tracks", "Comma-separated video track ids to keep").String()
	fs.buttonTracks = app.Flag("button-tracks", "Comma-separated button track ids to keep").String()
	fs.noAudio = app.Flag("no-audio", "Drop all audio tracks").Bool()
	fs.noSub = app.Flag("no-subs", "Drop all subtitle tracks").Bool()
	fs.noVideo = app.Flag("no-video", "Drop all video tracks").Bool()
	fs.noButton = app.Flag("no-buttons", "Drop all button tracks").Bool()

	fs.fontAttachs = app.Flag("fonts", "Comma-separated font attachment ids to keep").String()
	fs.otherAttachs = app.Flag("attachs", "Comma-separated other attachment ids to keep").String()
	fs.noFonts = app.Flag("no-fonts", "Drop all font attachments").Bool()
	fs.noOthers = app.Flag("no-attachs", "Drop all non-font attachments").Bool()

	fs.defaultFlag = app.Flag("default", "Track ids to force/unforce the default flag on (\"id\" or \"!id\")").String()
	fs.forcedFlag = app.Flag("forced", "Track ids to force/unforce the forced flag on").String()
	fs.enabledFlag = app.Flag("enabled", "Track ids to force/unforce the enabled flag on").String()
	fs.maxDefault = app.Flag("max-default", "Cap on auto-inferred default tracks").String()
	fs.maxForced = app.Flag("max-forced", "Cap on auto-inferred forced tracks").String()
	fs.maxEnabled = app.Flag("max-enabled", "Cap on auto-inferred enabled tracks").String()

	fs.names = app.Flag("track-name", "id:name track name overrides (comma-separated)").String()
	fs.langs = app.Flag("track-lang", "id:lang track language overrides (comma-separated)").String()

	fs.mkvmerge = app.Flag("mkvmerge", "Path to the mkvmerge executable").String()
	fs.mkvinfo = app.Flag("mkvinfo", "Path to the mkvinfo executable").String()
	fs.mkvextract = app.Flag("mkvextract", "Path to the mkvextract executable").String()
	fs.ffmpeg = app.Flag("ffmpeg", "Path to the ffmpeg executable").String()
	fs.ffprobe = app.Flag("ffprobe", "Path to the ffprobe executable").String()

	fs.input = app.Arg("input", "Input directory to scan").String()

	return fs
}

// splitTargetSegments breaks argv into the global segment and one segment
// per "--target <value> ..." scope, matching §4.3's "flags after --target
// apply only within that scope until the next --target or end of argv".
func splitTargetSegments(argv []string) (global []string, scoped []struct {
	Target string
	Args   []string
}) {
	cur := []string{}
	curTarget := ""
	inScope := false
	flush := func() {
		if inScope {
			scoped = append(scoped, struct {
				Target string
				Args   []string
			}{Target: curTarget, Args: cur})
		} else {
			global = cur
		}
	}
	for i := 0; i < len(argv); i++ {
		if argv[i] == "--target" && i+1 < len(argv) {
			flush()
			curTarget = argv[i+1]
			cur = []string{}
			inScope = true
			i++
			continue
		}
		cur = append(cur, argv[i])
	}
	flush()
	return global, scoped
}

// ParseFlags builds a Config from argv (typically os.Args[1:]), applying
// --target-scoped segments as PartialConfig overrides (§4.3).
func ParseFlags(argv []string) (*Config, error) {
	cfg := DefaultConfig()

	globalArgv, scopedArgv := splitTargetSegments(argv)

	fs := newFlagSet("mux-media")
	if _, err := fs.app.Parse(globalArgv); err != nil {
		return nil, err
	}
	if err := applyGlobal(&cfg, fs); err != nil {
		return nil, err
	}

	for _, seg := range scopedArgv {
		t := target.Parse(seg.Target)
		sfs := newFlagSet("mux-media")
		if _, err := sfs.app.Parse(seg.Args); err != nil {
			return nil, err
		}
		pc, err := buildPartial(sfs)
		if err != nil {
			return nil, err
		}
		cfg.SetPartial(t, pc)
	}

	return &cfg, nil
}

func applyGlobal(cfg *Config, fs *flagSet) error {
	if *fs.input != "" {
		cfg.Input.Dir = *fs.input
	}
	if *fs.output != "" {
		cfg.Output.Dir = *fs.output
	}
	cfg.Input.Depth = *fs.depth
	cfg.Input.Skip = *fs.skip
	cfg.Input.Solo = *fs.solo
	if *fs.rng != "" {
		r, err := rangeid.ParseRange(*fs.rng)
		if err != nil {
			return err
		}
		cfg.Input.Range = &r
	}
	if *fs.locale != "" {
		if c, ok := langcode.Get(*fs.locale); ok {
			cfg.Locale = c
		}
	}
	cfg.Verbose = len(*fs.verbose) - len(*fs.quiet)
	cfg.ExitOnErr = *fs.exitErr
	cfg.SaveConfig = *fs.save
	cfg.Jobs = *fs.jobs
	if *fs.muxer == "ffmpeg" {
		cfg.Muxer = MuxerFfmpeg
	}
	cfg.Retiming.NoLinked = *fs.noLinked
	cfg.Retiming.PartsGlob = *fs.parts

	pc, err := buildPartial(fs)
	if err != nil {
		return err
	}
	if pc.Tracks.Audio != nil {
		cfg.Tracks.Audio = *pc.Tracks.Audio
	}
	if pc.Tracks.Sub != nil {
		cfg.Tracks.Sub = *pc.Tracks.Sub
	}
	if pc.Tracks.Video != nil {
		cfg.Tracks.Video = *pc.Tracks.Video
	}
	if pc.Tracks.Button != nil {
		cfg.Tracks.Button = *pc.Tracks.Button
	}
	if pc.Attachs.Font != nil {
		cfg.Attachs.Font = *pc.Attachs.Font
	}
	if pc.Attachs.Other != nil {
		cfg.Attachs.Other = *pc.Attachs.Other
	}
	if pc.Disposition.Default != nil {
		cfg.Disposition.Default = *pc.Disposition.Default
	}
	if pc.Disposition.Forced != nil {
		cfg.Disposition.Forced = *pc.Disposition.Forced
	}
	if pc.Disposition.Enabled != nil {
		cfg.Disposition.Enabled = *pc.Disposition.Enabled
	}
	if pc.Meta.Names != nil {
		cfg.Meta.Names = *pc.Meta.Names
	}
	if pc.Meta.Langs != nil {
		cfg.Meta.Langs = *pc.Meta.Langs
	}

	if *fs.mkvmerge != "" {
		cfg.Tools.Mkvmerge = *fs.mkvmerge
	}
	if *fs.mkvinfo != "" {
		cfg.Tools.Mkvinfo = *fs.mkvinfo
	}
	if *fs.mkvextract != "" {
		cfg.Tools.Mkvextract = *fs.mkvextract
	}
	if *fs.ffmpeg != "" {
		cfg.Tools.Ffmpeg = *fs.ffmpeg
	}
	if *fs.ffprobe != "" {
		cfg.Tools.Ffprobe = *fs.ffprobe
	}
	return nil
}

// buildPartial reads the selector/disposition/metadata flags of fs into a
// PartialConfig, leaving fields nil when their flag was not supplied.
func buildPartial(fs *flagSet) (PartialConfig, error) {
	var pc PartialConfig

	if sel, ok, err := parseTrackSelector(*fs.audioTracks, *fs.noAudio); err != nil {
		return pc, err
	} else if ok {
		pc.Tracks.Audio = &sel
	}
	if sel, ok, err := parseTrackSelector(*fs.subTracks, *fs.noSub); err != nil {
		return pc, err
	} else if ok {
		pc.Tracks.Sub = &sel
	}
	if sel, ok, err := parseTrackSelector(*fs.videoTracks, *fs.noVideo); err != nil {
		return pc, err
	} else if ok {
		pc.Tracks.Video = &sel
	}
	if sel, ok, err := parseTrackSelector(*fs.buttonTracks, *fs.noButton); err != nil {
		return pc, err
	} else if ok {
		pc.Tracks.Button = &sel
	}

	if sel, ok, err := parseAttachSelector(*fs.fontAttachs, *fs.noFonts); err != nil {
		return pc, err
	} else if ok {
		pc.Attachs.Font = &sel
	}
	if sel, ok, err := parseAttachSelector(*fs.otherAttachs, *fs.noOthers); err != nil {
		return pc, err
	} else if ok {
		pc.Attachs.Other = &sel
	}

	if m, ok, err := parseDispositionFlag(*fs.defaultFlag, *fs.maxDefault, disposition.Default); err != nil {
		return pc, err
	} else if ok {
		pc.Disposition.Default = &m
	}
	if m, ok, err := parseDispositionFlag(*fs.forcedFlag, *fs.maxForced, disposition.Forced); err != nil {
		return pc, err
	} else if ok {
		pc.Disposition.Forced = &m
	}
	if m, ok, err := parseDispositionFlag(*fs.enabledFlag, *fs.maxEnabled, disposition.Enabled); err != nil {
		return pc, err
	} else if ok {
		pc.Disposition.Enabled = &m
	}

	if m, ok, err := parseNameMap(*fs.names); err != nil {
		return pc, err
	} else if ok {
		pc.Meta.Names = &m
	}
	if m, ok, err := parseLangMap(*fs.langs); err != nil {
		return pc, err
	} else if ok {
		pc.Meta.Langs = &m
	}

	return pc, nil
}

// parseTrackSelector turns a comma-separated id list (optionally prefixed
// with "!" for inversion) plus a no-flag bool into a Selector[TrackID].
func parseTrackSelector(raw string, noFlag bool) (selector.Selector[rangeid.TrackID], bool, error) {
	if noFlag {
		return selector.None[rangeid.TrackID](), true, nil
	}
	if raw == "" {
		return selector.Selector[rangeid.TrackID]{}, false, nil
	}
	inverse := strings.HasPrefix(raw, "!")
	raw = strings.TrimPrefix(raw, "!")
	var hashed, unhashed []rangeid.TrackID
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := rangeid.ParseTrackID(tok)
		if err != nil {
			return selector.Selector[rangeid.TrackID]{}, false, err
		}
		if strings.Contains(tok, "-") {
			unhashed = append(unhashed, id)
		} else {
			hashed = append(hashed, id)
		}
	}
	return selector.New(false, inverse, hashed, unhashed), true, nil
}

func parseAttachSelector(raw string, noFlag bool) (selector.Selector[rangeid.AttachID], bool, error) {
	if noFlag {
		return selector.None[rangeid.AttachID](), true, nil
	}
	if raw == "" {
		return selector.Selector[rangeid.AttachID]{}, false, nil
	}
	inverse := strings.HasPrefix(raw, "!")
	raw = strings.TrimPrefix(raw, "!")
	var hashed, unhashed []rangeid.AttachID
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := rangeid.ParseAttachID(tok)
		if err != nil {
			return selector.Selector[rangeid.AttachID]{}, false, err
		}
		if strings.Contains(tok, "-") {
			unhashed = append(unhashed, id)
		} else {
			hashed = append(hashed, id)
		}
	}
	return selector.New(false, inverse, hashed, unhashed), true, nil
}

// parseDispositionFlag turns a comma-separated "id" or "!id" list plus an
// optional --max-* value into a Dispositions<bool> map.
func parseDispositionFlag(raw, maxRaw string, flag disposition.Flag) (disposition.Map[rangeid.TrackID, bool], bool, error) {
	var m disposition.Map[rangeid.TrackID, bool]
	changed := false

	if raw != "" {
		changed = true
		if raw == "true" || raw == "false" {
			v := raw == "true"
			m.Unmapped = &v
		} else {
			hashed := map[rangeid.TrackID]bool{}
			var unhashed []disposition.Pair[rangeid.TrackID, bool]
			for _, tok := range strings.Split(raw, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				want := true
				if strings.HasPrefix(tok, "!") {
					want = false
					tok = tok[1:]
				}
				id, err := rangeid.ParseTrackID(tok)
				if err != nil {
					return m, false, err
				}
				if strings.Contains(tok, "-") {
					unhashed = append(unhashed, disposition.Pair[rangeid.TrackID, bool]{ID: id, Value: want})
				} else {
					hashed[id] = want
				}
			}
			if len(hashed) > 0 {
				m.MapHashed = hashed
			}
			m.MapUnhashed = unhashed
		}
	}

	if maxRaw != "" {
		changed = true
		n, err := rangeid.ParseRange(maxRaw)
		if err != nil {
			return m, false, err
		}
		max := n.End
		if n.Start == n.End {
			max = n.Start
		}
		m = disposition.MergeMaxInAuto(m, max)
	}

	_ = flag
	return m, changed, nil
}

func parseNameMap(raw string) (disposition.Map[rangeid.TrackID, string], bool, error) {
	var m disposition.Map[rangeid.TrackID, string]
	if raw == "" {
		return m, false, nil
	}
	hashed := map[rangeid.TrackID]string{}
	var unhashed []disposition.Pair[rangeid.TrackID, string]
	for _, entry := range strings.Split(raw, ",") {
		idStr, val, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		id, err := rangeid.ParseTrackID(strings.TrimSpace(idStr))
		if err != nil {
			return m, false, err
		}
		if strings.Contains(idStr, "-") {
			unhashed = append(unhashed, disposition.Pair[rangeid.TrackID, string]{ID: id, Value: val})
		} else {
			hashed[id] = val
		}
	}
	if len(hashed) > 0 {
		m.MapHashed = hashed
	}
	m.MapUnhashed = unhashed
	return m, true, nil
}

func parseLangMap(raw string) (disposition.Map[rangeid.TrackID, langcode.Code], bool, error) {
	var m disposition.Map[rangeid.TrackID, langcode.Code]
	if raw == "" {
		return m, false, nil
	}
	hashed := map[rangeid.TrackID]langcode.Code{}
	var unhashed []disposition.Pair[rangeid.TrackID, langcode.Code]
	for _, entry := range strings.Split(raw, ",") {
		idStr, val, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		id, err := rangeid.ParseTrackID(strings.TrimSpace(idStr))
		if err != nil {
			return m, false, err
		}
		code, ok := langcode.Get(val)
		if !ok {
			return m, false, &rangeid.ParseError{Token: val}
		}
		if strings.Contains(idStr, "-") {
			unhashed = append(unhashed, disposition.Pair[rangeid.TrackID, langcode.Code]{ID: id, Value: code})
		} else {
			hashed[id] = code
		}
	}
	if len(hashed) > 0 {
		m.MapHashed = hashed
	}
	m.MapUnhashed = unhashed
	return m, true, nil
}
