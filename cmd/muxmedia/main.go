// Command muxmedia is the CLI entrypoint for the batch matroska/mp4
// multiplexer core. It parses flags, validates configuration and paths,
// and either runs a supplemented convenience mode (--check, --list-*, tool
// pass-through) or the grouped mux pipeline.
//
// Grounded on the teacher's cmd/main.go (bootstrap-before-logger phase,
// signal-driven context cancellation, absPath/ValidatePaths gate,
// CheckDeps fail-fast) adapted to this core's Config/muxer.Run shape.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nujievik/mux-media-sub000/internal/check"
	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/display"
	"github.com/nujievik/mux-media-sub000/internal/logging"
	"github.com/nujievik/mux-media-sub000/internal/muxer"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if code, handled := runPassthrough(argv); handled {
		return code
	}
	if code, handled := runInfoExit(argv); handled {
		return code
	}

	// --check is handled here, not by the flag parser.
	parseArgv := make([]string, 0, len(argv))
	for _, a := range argv {
		if a != "--check" {
			parseArgv = append(parseArgv, a)
		}
	}
	cfg, err := config.ParseFlags(parseArgv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mux-media: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "mux-media: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mux-media: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	if hasFlag(argv, "--check") {
		check.RunCheck(cfg, log)
		return 0
	}

	inputAbs, err := absPath(cfg.Input.Dir)
	if err != nil {
		log.Error("input not found: %s", cfg.Input.Dir)
		return 1
	}
	cfg.Input.Dir = inputAbs

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = filepath.Join(inputAbs, "muxed")
		cfg.Output.IsConstructedFromInput = true
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Error("cannot create output directory: %s", cfg.Output.Dir)
		return 1
	}
	outputAbs, err := absPath(cfg.Output.Dir)
	if err != nil {
		log.Error("cannot resolve output path: %s", cfg.Output.Dir)
		return 1
	}
	cfg.Output.Dir = outputAbs
	if err := config.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("choose an output path outside: %s", inputAbs)
		return 1
	}

	log.Info("=== mux-media v%s ===", version)
	log.Info("In:  %s", cfg.Input.Dir)
	log.Info("Out: %s", cfg.Output.Dir)
	log.Info("")

	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("received interrupt, cancelling running groups…")
		cancel()
	}()

	count, err := muxer.Run(ctx, cfg, log, argv)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Info("done: %d file(s) muxed", count)
	return 0
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func hasFlag(argv []string, name string) bool {
	for _, a := range argv {
		if a == name {
			return true
		}
	}
	return false
}

// runPassthrough implements the tool pass-through mode (§6, supplemented
// from original_source/src/run.rs): "--mkvmerge ARGS…" forwards every
// trailing argument to the named external tool verbatim, mirrors its
// stdout, and exits with its exit code.
func runPassthrough(argv []string) (int, bool) {
	if len(argv) == 0 {
		return 0, false
	}
	tool, ok := strings.CutPrefix(argv[0], "--")
	if !ok {
		return 0, false
	}
	switch tool {
	case "mkvmerge", "mkvinfo", "mkvextract", "ffmpeg", "ffprobe":
	default:
		return 0, false
	}

	cmd := exec.Command(tool, argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), true
		}
		fmt.Fprintf(os.Stderr, "mux-media: %v\n", err)
		return 1, true
	}
	return 0, true
}

// runInfoExit implements the --list-langs / --list-containers /
// --list-targets info exits (§6, supplemented from original_source).
func runInfoExit(argv []string) (int, bool) {
	for _, a := range argv {
		switch a {
		case "--list-langs":
			display.PrintLangs()
			return 0, true
		case "--list-containers":
			display.PrintContainers()
			return 0, true
		case "--list-targets":
			display.PrintTargetGroups()
			return 0, true
		}
	}
	return 0, false
}
