// Package check provides the --check diagnostics mode and pre-run
// dependency validation for the five external tools this core shells out
// to (mkvmerge, mkvinfo, mkvextract, ffmpeg, ffprobe).
//
// Grounded on the teacher's internal/check/check.go (Logger interface kept
// dependency-light, RunCheck informational flow, CheckDeps pre-pipeline
// gate with sentinel errors, runSilent helper); the VAAPI/x265/AAC encoder
// probes are replaced with --version probes of this domain's tools.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/tools"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrMkvmergeNotFound   = errors.New("mkvmerge not found on PATH")
	ErrMkvextractNotFound = errors.New("mkvextract not found on PATH")
	ErrFfmpegNotFound     = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound    = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// (rather than importing the logging package) so check stays
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints the first --version
// line of every tool this core uses, or an error naming the configured
// path when the tool is not found. Informational only, never stops on
// failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")
	for _, t := range []tools.Tool{tools.Mkvmerge, tools.Mkvinfo, tools.Mkvextract, tools.Ffmpeg, tools.Ffprobe} {
		checkTool(cfg, log, t)
	}
}

func checkTool(cfg *config.Config, log Logger, t tools.Tool) {
	runner := tools.New(cfg)
	path := runner.Path(t)
	if _, err := exec.LookPath(path); err != nil {
		log.Error("%s: not found on PATH (%s)", t, path)
		return
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		log.Warn("%s found but --version failed: %v", t, err)
		return
	}
	first := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	log.Success("%s: %s", t, first)
}

// CheckDeps is the pre-run validation the driver calls before touching the
// first group: mkvmerge/mkvextract are required for the default muxer,
// ffmpeg/ffprobe are required unconditionally (subtitle extraction and
// retiming probes use them regardless of muxer choice).
func CheckDeps(cfg *config.Config) error {
	runner := tools.New(cfg)

	if cfg.Muxer.IsDefault() {
		if _, err := exec.LookPath(runner.Path(tools.Mkvmerge)); err != nil {
			return ErrMkvmergeNotFound
		}
		if _, err := exec.LookPath(runner.Path(tools.Mkvextract)); err != nil {
			return ErrMkvextractNotFound
		}
	}
	if _, err := exec.LookPath(runner.Path(tools.Ffmpeg)); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(runner.Path(tools.Ffprobe)); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}
