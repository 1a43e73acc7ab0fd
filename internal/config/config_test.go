package config

import (
	"os"
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/langcode"
	"github.com/nujievik/mux-media-sub000/internal/rangeid"
	"github.com/nujievik/mux-media-sub000/internal/selector"
	"github.com/nujievik/mux-media-sub000/internal/target"
)

func TestDefaultConfigSelectorsKeepEverything(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Tracks.Audio.NoFlag {
		t.Error("default audio selector should keep everything")
	}
	if cfg.Jobs != 1 {
		t.Errorf("Jobs = %d, want 1", cfg.Jobs)
	}
	if cfg.Muxer != MuxerMkvmerge {
		t.Errorf("Muxer = %v, want MuxerMkvmerge", cfg.Muxer)
	}
}

func TestValidateRequiresInputDir(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail without an input directory")
	}
	cfg.Input.Dir = "/tmp/in"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with input dir set: %v", err)
	}
}

func TestValidateClampsJobs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Dir = "/tmp/in"
	cfg.Jobs = 0
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Jobs != 1 {
		t.Errorf("Jobs after Validate() = %d, want 1", cfg.Jobs)
	}
}

func TestValidatePathsRejectsNesting(t *testing.T) {
	if err := ValidatePaths("/media/in", "/media/in/muxed"); err == nil {
		t.Error("expected an error for an output dir nested under input")
	}
	if err := ValidatePaths("/media/in", "/media/in"); err == nil {
		t.Error("expected an error for equal input/output dirs")
	}
	if err := ValidatePaths("/media/in", "/media/out"); err != nil {
		t.Errorf("unexpected error for disjoint dirs: %v", err)
	}
}

func TestLocaleFromEnv(t *testing.T) {
	for _, key := range []string{"LC_ALL", "LANG", "LC_MESSAGES"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		defer func(k, v string, had bool) {
			if had {
				os.Setenv(k, v)
			}
		}(key, old, had)
	}

	os.Setenv("LANG", "fr_FR.UTF-8")
	defer os.Unsetenv("LANG")
	if got := localeFromEnv(); got != langcode.Code("fre") {
		t.Errorf("localeFromEnv() with LANG=fr_FR.UTF-8 = %q, want fre", got)
	}
}

func TestLocaleFromEnvDefaultsToUnd(t *testing.T) {
	for _, key := range []string{"LC_ALL", "LANG", "LC_MESSAGES"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		defer func(k, v string, had bool) {
			if had {
				os.Setenv(k, v)
			}
		}(key, old, had)
	}
	if got := localeFromEnv(); got != langcode.Und {
		t.Errorf("localeFromEnv() with no locale env = %q, want Und", got)
	}
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.AudioSelector(nil)
	if got.NoFlag {
		t.Error("AudioSelector with no targets should fall back to global (keep everything)")
	}
}

func TestResolvePrefersTargetOverride(t *testing.T) {
	cfg := DefaultConfig()
	tgt := target.FromGroup(target.GroupAudio)
	none := selector.None[rangeid.TrackID]()
	cfg.SetPartial(tgt, PartialConfig{Tracks: PartialTrackSelectors{Audio: &none}})

	got := cfg.AudioSelector([]target.Target{tgt})
	if !got.NoFlag {
		t.Error("AudioSelector should return the per-target override (None), not the global default")
	}

	got = cfg.AudioSelector([]target.Target{target.FromGroup(target.GroupVideo)})
	if got.NoFlag {
		t.Error("AudioSelector should fall back to global when the given targets have no override")
	}
}
