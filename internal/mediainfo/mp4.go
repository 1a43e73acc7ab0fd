package mediainfo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
)

// mp4Ext is the MP4-family container set: these get a direct box-level
// read of moov/trak/mdia (§4.2's matroska builder has no equivalent for
// this container family; DOMAIN STACK wires mp4ff as its parallel).
var mp4Ext = map[string]bool{".mp4": true, ".m4v": true, ".mov": true}

func isMP4Ext(path string) bool {
	return mp4Ext[strings.ToLower(filepath.Ext(path))]
}

// buildMP4 reads path's moov box directly and returns a per-track info map
// plus the movie duration, mirroring buildMatroska's shape so TryInsert can
// try it before falling back to mkvmerge -i.
func (mi *MediaInfo) buildMP4(path string) (map[uint64]*TrackInfo, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	parsed, err := mp4.DecodeFile(f)
	if err != nil {
		return nil, 0, err
	}
	if parsed.Moov == nil || len(parsed.Moov.Traks) == 0 {
		return nil, 0, errNoTracks(path)
	}

	tracks := make(map[uint64]*TrackInfo, len(parsed.Moov.Traks))
	var durationNS int64
	counters := map[TrackType]int{}

	if mvhd := parsed.Moov.Mvhd; mvhd != nil && mvhd.Timescale > 0 {
		durationNS = int64(float64(mvhd.Duration) / float64(mvhd.Timescale) * 1e9)
	}

	for _, trak := range parsed.Moov.Traks {
		if trak.Tkhd == nil || trak.Mdia == nil || trak.Mdia.Hdlr == nil {
			continue
		}
		ty := trackTypeFromMP4Handler(trak.Mdia.Hdlr.HandlerType)
		ti := &TrackInfo{
			Number:    uint64(trak.Tkhd.TrackID),
			TrackType: ty,
			Enabled:   trak.Tkhd.Flags&0x1 != 0,
			CodecID:   mp4SampleCodec(trak),
		}
		ti.LacedIdx = counters[ty]
		counters[ty]++
		ti.Name = cached("")
		ti.Lang = cached(langFromMP4(trak))
		tracks[ti.Number] = ti
	}
	if len(tracks) == 0 {
		return nil, 0, errNoTracks(path)
	}
	return tracks, durationNS, nil
}

func trackTypeFromMP4Handler(handlerType string) TrackType {
	switch handlerType {
	case "vide":
		return TrackVideo
	case "soun":
		return TrackAudio
	case "sbtl", "text", "subt":
		return TrackSub
	default:
		return TrackAudio
	}
}

func mp4SampleCodec(trak *mp4.TrakBox) string {
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ""
	}
	stsd := trak.Mdia.Minf.Stbl.Stsd
	if len(stsd.Children) == 0 {
		return ""
	}
	return stsd.Children[0].Type()
}

func langFromMP4(trak *mp4.TrakBox) langcode.Code {
	if trak.Mdia == nil || trak.Mdia.Mdhd == nil {
		return langcode.Und
	}
	if c, ok := langcode.Get(trak.Mdia.Mdhd.Language); ok {
		return c
	}
	return langcode.Und
}

// hydrateFromMP4 installs a buildMP4 result into fc, mirroring
// hydrateFromMatroska's cache population so callers don't need to know
// which builder actually ran.
func (mi *MediaInfo) hydrateFromMP4(fc *fileCache, tracks map[uint64]*TrackInfo, durationNS int64) {
	fc.Tracks = cached(tracks)
	fc.Attachs = cached(map[rangeid.AttachID]*AttachInfo{})
}
