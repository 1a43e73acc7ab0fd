package trackorder

import (
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/disposition"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
)

func TestAutoProposeRespectsDefaultCap(t *testing.T) {
	counters := map[counterKey]uint64{}
	m := disposition.Map[rangeid.TrackID, bool]{}

	first := autoPropose(disposition.Default, m, mediainfo.TrackAudio, counters)
	if first == nil || !*first {
		t.Fatal("first auto-proposed Default should be true")
	}
	second := autoPropose(disposition.Default, m, mediainfo.TrackAudio, counters)
	if second != nil {
		t.Errorf("second auto-proposed Default for the same type should hit the cap of 1, got %v", second)
	}
}

func TestAutoProposeForcedDefaultCapIsZero(t *testing.T) {
	counters := map[counterKey]uint64{}
	m := disposition.Map[rangeid.TrackID, bool]{}
	got := autoPropose(disposition.Forced, m, mediainfo.TrackSub, counters)
	if got != nil {
		t.Errorf("Forced's default auto cap is 0, expected nil, got %v", got)
	}
}

func TestAutoProposeEnabledIsUnbounded(t *testing.T) {
	counters := map[counterKey]uint64{}
	m := disposition.Map[rangeid.TrackID, bool]{}
	for i := 0; i < 50; i++ {
		got := autoPropose(disposition.Enabled, m, mediainfo.TrackAudio, counters)
		if got == nil || !*got {
			t.Fatalf("Enabled auto-propose #%d should stay true (unbounded), got %v", i, got)
		}
	}
}

func TestAutoProposeCustomMaxInAuto(t *testing.T) {
	counters := map[counterKey]uint64{}
	max := uint64(2)
	m := disposition.Map[rangeid.TrackID, bool]{MaxInAuto: &max}

	for i := 0; i < 2; i++ {
		if got := autoPropose(disposition.Default, m, mediainfo.TrackAudio, counters); got == nil {
			t.Fatalf("auto-propose #%d should succeed under a custom cap of 2", i)
		}
	}
	if got := autoPropose(disposition.Default, m, mediainfo.TrackAudio, counters); got != nil {
		t.Error("third auto-propose should be rejected once the custom cap of 2 is reached")
	}
}

func TestResolveOneUserOverrideWins(t *testing.T) {
	counters := map[counterKey]uint64{}
	numID := rangeid.NumTrackID(2)
	langID := rangeid.LangTrackID("eng")
	m := disposition.Map[rangeid.TrackID, bool]{MapHashed: map[rangeid.TrackID]bool{numID: false}}

	got := resolveOne(disposition.Forced, m, numID, langID, mediainfo.TrackSub, counters)
	if got == nil || *got != false {
		t.Errorf("user override of false should be honored verbatim, got %v", got)
	}
}

func TestBumpCounterIncrementsPerFlagAndType(t *testing.T) {
	counters := map[counterKey]uint64{}
	bumpCounter(counters, disposition.Default, mediainfo.TrackAudio)
	bumpCounter(counters, disposition.Default, mediainfo.TrackAudio)
	bumpCounter(counters, disposition.Default, mediainfo.TrackSub)

	if counters[counterKey{disposition.Default, mediainfo.TrackAudio}] != 2 {
		t.Error("expected the audio/default counter to be 2")
	}
	if counters[counterKey{disposition.Default, mediainfo.TrackSub}] != 1 {
		t.Error("expected the sub/default counter to be 1")
	}
}
