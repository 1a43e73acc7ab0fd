package mediainfo

import (
	"time"

	"github.com/remko/go-mkvparse"

	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
)

// MatroskaInfo is the parsed subset of a matroska header this core needs:
// one entry per track and per attachment, plus the segment duration.
//
// Grounded on marcopaganini-mkvtool/subtool.go's MyParser (go-mkvparse
// EBML-handler callbacks accumulating into a flat track slice), extended
// with FlagForced/FlagEnabled/attachment handling this spec's dispositions
// and font-attachment selection need that the teacher's read-only `show`
// subcommand did not.
type MatroskaInfo struct {
	Tracks     []matroskaTrack
	Attachs    []matroskaAttach
	Chapters   []MatroskaChapter
	SegmentUID []byte
	DurationNS int64
}

// MatroskaChapter is one ChapterAtom of the (single) edition this core
// reads: a start/end time plus an optional linked-segment UID (§4.6
// "Chapter { start, end, uid: Option<Bytes> }").
type MatroskaChapter struct {
	StartNS int64
	EndNS   int64
	HasEnd  bool
	UID     []byte
}

type matroskaTrack struct {
	Number  uint64
	UID     uint64
	Type    int64
	Name    string
	Lang    string
	CodecID string
	Default bool
	Forced  bool
	Enabled bool
}

type matroskaAttach struct {
	UID      uint64
	Name     string
	MimeType string
}

type matroskaHandler struct {
	track      matroskaTrack
	attach     matroskaAttach
	chapter    MatroskaChapter
	inTrack    bool
	inAttach   bool
	inChapter  bool
	info       MatroskaInfo
	timecodeSc int64
}

func (h *matroskaHandler) HandleMasterBegin(id mkvparse.ElementID, _ mkvparse.ElementInfo) (bool, error) {
	if id == mkvparse.CuesElement || id == mkvparse.ClusterElement {
		return false, nil
	}
	if id == mkvparse.TrackEntryElement {
		h.inTrack = true
		h.track = matroskaTrack{Enabled: true}
	}
	if id == mkvparse.AttachedFileElement {
		h.inAttach = true
		h.attach = matroskaAttach{}
	}
	if id == mkvparse.ChapterAtomElement {
		h.inChapter = true
		h.chapter = MatroskaChapter{}
	}
	return true, nil
}

func (h *matroskaHandler) HandleMasterEnd(id mkvparse.ElementID, _ mkvparse.ElementInfo) error {
	switch id {
	case mkvparse.TrackEntryElement:
		h.info.Tracks = append(h.info.Tracks, h.track)
		h.inTrack = false
	case mkvparse.AttachedFileElement:
		h.info.Attachs = append(h.info.Attachs, h.attach)
		h.inAttach = false
	case mkvparse.ChapterAtomElement:
		h.info.Chapters = append(h.info.Chapters, h.chapter)
		h.inChapter = false
	}
	return nil
}

func (h *matroskaHandler) HandleString(id mkvparse.ElementID, value string, _ mkvparse.ElementInfo) error {
	switch {
	case h.inTrack:
		switch id {
		case mkvparse.NameElement:
			h.track.Name = value
		case mkvparse.LanguageElement:
			h.track.Lang = value
		case mkvparse.CodecIDElement:
			h.track.CodecID = value
		}
	case h.inAttach:
		switch id {
		case mkvparse.FileNameElement:
			h.attach.Name = value
		case mkvparse.FileMimeTypeElement:
			h.attach.MimeType = value
		}
	}
	return nil
}

func (h *matroskaHandler) HandleInteger(id mkvparse.ElementID, value int64, _ mkvparse.ElementInfo) error {
	switch {
	case h.inTrack:
		switch id {
		case mkvparse.TrackNumberElement:
			h.track.Number = uint64(value)
		case mkvparse.TrackUIDElement:
			h.track.UID = uint64(value)
		case mkvparse.TrackTypeElement:
			h.track.Type = value
		case mkvparse.FlagDefaultElement:
			h.track.Default = value != 0
		case mkvparse.FlagForcedElement:
			h.track.Forced = value != 0
		case mkvparse.FlagEnabledElement:
			h.track.Enabled = value != 0
		}
	case h.inAttach:
		if id == mkvparse.FileUIDElement {
			h.attach.UID = uint64(value)
		}
	case h.inChapter:
		switch id {
		case mkvparse.ChapterTimeStartElement:
			h.chapter.StartNS = value
		case mkvparse.ChapterTimeEndElement:
			h.chapter.EndNS = value
			h.chapter.HasEnd = true
		}
	case id == mkvparse.TimecodeScaleElement:
		h.timecodeSc = value
	}
	return nil
}

func (h *matroskaHandler) HandleFloat(id mkvparse.ElementID, value float64, _ mkvparse.ElementInfo) error {
	if id == mkvparse.DurationElement {
		scale := h.timecodeSc
		if scale == 0 {
			scale = 1_000_000
		}
		h.info.DurationNS = int64(value * float64(scale))
	}
	return nil
}

func (h *matroskaHandler) HandleDate(mkvparse.ElementID, time.Time, mkvparse.ElementInfo) error { return nil }

func (h *matroskaHandler) HandleBinary(id mkvparse.ElementID, value []byte, _ mkvparse.ElementInfo) error {
	switch {
	case h.inChapter && id == mkvparse.ChapterSegmentUIDElement:
		h.chapter.UID = append([]byte(nil), value...)
	case !h.inTrack && !h.inAttach && !h.inChapter && id == mkvparse.SegmentUIDElement:
		h.info.SegmentUID = append([]byte(nil), value...)
	}
	return nil
}

// buildMatroska parses path as a matroska header. Succeeds only for files
// that actually carry EBML/matroska structure; callers fall back to the
// mkvmerge -i listing on failure (§4.2: "matroska header parse attempted
// first, mkvmerge -i fallback").
func (mi *MediaInfo) buildMatroska(path string) (*MatroskaInfo, error) {
	h := &matroskaHandler{}
	if err := mkvparse.ParsePath(path, h); err != nil {
		return nil, err
	}
	if len(h.info.Tracks) == 0 {
		return nil, errNoTracks(path)
	}
	return &h.info, nil
}

func trackTypeFromMatroska(t int64) TrackType {
	switch t {
	case 1:
		return TrackVideo
	case 2:
		return TrackAudio
	case 17:
		return TrackSub
	case 18:
		return TrackButton
	default:
		return TrackVideo
	}
}

func (t matroskaTrack) toTrackInfo() *TrackInfo {
	lang, ok := langcode.Get(t.Lang)
	if !ok {
		lang = langcode.Und
	}
	ti := &TrackInfo{
		Number:    t.Number,
		TrackType: trackTypeFromMatroska(t.Type),
		Default:   t.Default,
		Forced:    t.Forced,
		Enabled:   t.Enabled,
		CodecID:   t.CodecID,
	}
	ti.Name = cached(t.Name)
	ti.Lang = cached(lang)
	return ti
}

func (a matroskaAttach) toAttachInfo(num uint64) *AttachInfo {
	return &AttachInfo{
		ID:       rangeid.NumAttachID(num),
		Name:     a.Name,
		MimeType: a.MimeType,
		IsFont:   isFontMime(a.MimeType, a.Name),
	}
}

func isFontMime(mime, name string) bool {
	switch mime {
	case "application/x-truetype-font", "application/vnd.ms-opentype", "font/ttf", "font/otf", "font/sfnt":
		return true
	}
	n := len(name)
	return n > 4 && (hasSuffixFold(name, ".ttf") || hasSuffixFold(name, ".otf"))
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := range tail {
		c := tail[i]
		want := suffix[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != want {
			return false
		}
	}
	return true
}
