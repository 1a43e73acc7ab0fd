package trackorder

import (
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
)

func TestFlagRank(t *testing.T) {
	yes := true
	no := false
	if flagRank(nil) != 1 {
		t.Errorf("flagRank(nil) = %d, want 1", flagRank(nil))
	}
	if flagRank(&yes) != 0 {
		t.Errorf("flagRank(true) = %d, want 0", flagRank(&yes))
	}
	if flagRank(&no) != 2 {
		t.Errorf("flagRank(false) = %d, want 2", flagRank(&no))
	}
}

func TestTypeRank(t *testing.T) {
	cases := []struct {
		ty   mediainfo.TrackType
		want int
	}{
		{mediainfo.TrackVideo, 0},
		{mediainfo.TrackAudio, 1},
		{mediainfo.TrackSub, 2},
		{mediainfo.TrackButton, 3},
	}
	for _, c := range cases {
		if got := typeRank(c.ty); got != c.want {
			t.Errorf("typeRank(%v) = %d, want %d", c.ty, got, c.want)
		}
	}
}

func TestLessOrdersBySevenKeys(t *testing.T) {
	video := sortKey{trackType: 0, path: "b.mkv"}
	audio := sortKey{trackType: 1, path: "a.mkv"}
	if !less(video, audio) {
		t.Error("video (trackType=0) should sort before audio (trackType=1) regardless of path")
	}

	higherDefault := sortKey{trackType: 1, def: 0, path: "z.mkv"}
	lowerDefault := sortKey{trackType: 1, def: 1, path: "a.mkv"}
	if !less(higherDefault, lowerDefault) {
		t.Error("def=0 (true) should sort before def=1 (unset) within the same track type")
	}

	samePrefix := sortKey{trackType: 1, def: 1, forced: 1, enabled: 1, itSigns: 1, lang: 0, path: "a.mkv"}
	tieBreak := sortKey{trackType: 1, def: 1, forced: 1, enabled: 1, itSigns: 1, lang: 0, path: "b.mkv"}
	if !less(samePrefix, tieBreak) {
		t.Error("equal 6-key prefix should fall through to the path tiebreaker")
	}
}

func TestBoolRank(t *testing.T) {
	if boolRank(true) != 0 {
		t.Errorf("boolRank(true) = %d, want 0", boolRank(true))
	}
	if boolRank(false) != 1 {
		t.Errorf("boolRank(false) = %d, want 1", boolRank(false))
	}
}

func TestContainsSignsWord(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Episode 01 Signs", true},
		{"Episode 01 Songs & Signs", true},
		{"надписи", true},
		{"Full Dub", false},
		{"", false},
		{"SIGNS_AND_SONGS.ass", true},
	}
	for _, c := range cases {
		if got := containsSignsWord(c.in); got != c.want {
			t.Errorf("containsSignsWord(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLookupFlagPrefersNumericOverLang(t *testing.T) {
	numID := rangeid.NumTrackID(3)
	langID := rangeid.LangTrackID("eng")

	m := disposition.Map[rangeid.TrackID, bool]{
		MapHashed: map[rangeid.TrackID]bool{
			numID:  true,
			langID: false,
		},
	}
	got := lookupFlag(m, numID, langID)
	if got == nil || *got != true {
		t.Errorf("lookupFlag should prefer the numeric id match, got %v", got)
	}
}

func TestLookupFlagFallsBackToLang(t *testing.T) {
	numID := rangeid.NumTrackID(9)
	langID := rangeid.LangTrackID("jpn")

	m := disposition.Map[rangeid.TrackID, bool]{
		MapHashed: map[rangeid.TrackID]bool{
			langID: true,
		},
	}
	got := lookupFlag(m, numID, langID)
	if got == nil || *got != true {
		t.Errorf("lookupFlag should fall back to the lang id match, got %v", got)
	}
}

func TestLookupFlagNoMatch(t *testing.T) {
	m := disposition.Map[rangeid.TrackID, bool]{}
	got := lookupFlag(m, rangeid.NumTrackID(1), rangeid.LangTrackID("und"))
	if got != nil {
		t.Errorf("lookupFlag on an empty map should return nil, got %v", *got)
	}
}

func TestBuildEmptyPathsErrors(t *testing.T) {
	if _, err := Build(nil, nil, "", nil); err == nil {
		t.Error("Build with no paths should return an error")
	}
}
