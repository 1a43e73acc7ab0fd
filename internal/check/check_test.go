package check

import (
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/config"
)

type fakeLogger struct {
	infos, successes, warns, errors []string
}

func (f *fakeLogger) Info(format string, args ...interface{})    { f.infos = append(f.infos, format) }
func (f *fakeLogger) Success(format string, args ...interface{}) { f.successes = append(f.successes, format) }
func (f *fakeLogger) Warn(format string, args ...interface{})    { f.warns = append(f.warns, format) }
func (f *fakeLogger) Error(format string, args ...interface{})   { f.errors = append(f.errors, format) }

func TestCheckDepsMissingMkvmerge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.Mkvmerge = "definitely-not-a-real-binary-xyz"
	cfg.Tools.Mkvextract = "definitely-not-a-real-binary-xyz"

	if err := CheckDeps(&cfg); err != ErrMkvmergeNotFound {
		t.Errorf("CheckDeps() = %v, want ErrMkvmergeNotFound", err)
	}
}

func TestCheckDepsMissingFfmpeg(t *testing.T) {
	cfg := config.DefaultConfig()
	// Force mkvmerge checks to be skipped so ffmpeg is the first probed tool.
	cfg.Muxer = config.MuxerFfmpeg
	cfg.Tools.Ffmpeg = "definitely-not-a-real-binary-xyz"

	if err := CheckDeps(&cfg); err != ErrFfmpegNotFound {
		t.Errorf("CheckDeps() = %v, want ErrFfmpegNotFound", err)
	}
}

func TestRunCheckReportsMissingTool(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.Mkvmerge = "definitely-not-a-real-binary-xyz"
	log := &fakeLogger{}

	RunCheck(&cfg, log)

	if len(log.errors) == 0 {
		t.Error("RunCheck should report at least one error for a missing tool")
	}
}
