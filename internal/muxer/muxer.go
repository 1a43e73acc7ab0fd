// Package muxer is the driver (§4.7): a worker pool that pulls groups off
// the grouped input iterator, builds each group's MediaInfo/TrackOrder/
// retiming plan, assembles the external muxer's argument list, and runs it.
//
// Grounded on the teacher's internal/pipeline package (worker-pool shape:
// a bounded channel of units of work, cfg.Jobs goroutines, per-worker
// Logger calls serialized by the Logger's own mutex) generalized from a
// single-file transcode unit to a multi-file mux group.
package muxer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/input"
	"github.com/nujievik/mux-media-sub000/internal/logging"
	"github.com/nujievik/mux-media-sub000/internal/mediainfo"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
	"github.com/nujievik/mux-media-sub000/internal/retiming"
	"github.com/nujievik/mux-media-sub000/internal/tools"
	"github.com/nujievik/mux-media-sub000/internal/trackorder"
)

// Run discovers every group under cfg.Input.Dir and muxes them, cfg.Jobs
// at a time. A recoverable per-group error (§7: NotRecognizedMedia,
// NotSavedAnyTrack, GroupEmpty) is logged and skipped unless
// cfg.ExitOnErr; any other error aborts the run: no further group is
// started, groups already running finish, and the error is returned. Returns the count of
// groups successfully muxed (§4.7 "Outputs: count of successfully produced
// files or the first hard error"); a group skipped because its output
// already exists does not add to this count (§8 "increments no counter").
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, argv []string) (int, error) {
	groups, err := input.Discover(cfg)
	if err != nil {
		return 0, err
	}
	log.Info("discovered %d group(s) under %s", len(groups), cfg.Input.Dir)

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	errCh := make(chan error, len(groups))
	var nextGroupID int64
	var successCount int64
	var aborted int32

	for _, g := range groups {
		g := g
		sem <- struct{}{}
		if atomic.LoadInt32(&aborted) != 0 {
			<-sem
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			groupID := int(atomic.AddInt64(&nextGroupID, 1))
			runner := tools.New(cfg)
			mi := mediainfo.New(cfg, runner)
			if err := processGroup(ctx, cfg, log, mi, g, groupID); err != nil {
				if muxerr.IsOkExit(err) {
					return
				}
				if muxerr.Recoverable(err) && !cfg.ExitOnErr {
					log.Warn("skipping group %q: %v", g.Stem, err)
					return
				}
				atomic.StoreInt32(&aborted, 1)
				errCh <- fmt.Errorf("group %q: %w", g.Stem, err)
				return
			}
			atomic.AddInt64(&successCount, 1)
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return int(successCount), err
	}

	if cfg.SaveConfig {
		if err := persistArgv(cfg, argv); err != nil {
			log.Warn("failed to persist mux-media.json: %v", err)
		}
	}
	return int(successCount), nil
}

// persistArgv writes the literal argv as mux-media.json inside the output
// directory (§6 "Persisted state"), gated by --save-config.
func persistArgv(cfg *config.Config, argv []string) error {
	dir := cfg.Output.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(argv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "mux-media.json"), data, 0o644)
}

func processGroup(ctx context.Context, cfg *config.Config, log *logging.Logger, mi *mediainfo.MediaInfo, g input.Group, groupID int) error {
	upmost := cfg.Input.Dir
	defer mi.ClearCurrent()

	for _, f := range g.Files {
		if err := mi.TryInsert(f); err != nil {
			log.Warn("not recognized media %q, dropping from group %q: %v", f, g.Stem, err)
		}
	}

	var usable []string
	for _, f := range g.Files {
		if _, err := mi.Tracks(f); err == nil {
			usable = append(usable, f)
		}
	}
	if len(usable) == 0 {
		return muxerr.WithKind(muxerr.GroupEmpty, "no recognized media in group "+g.Stem)
	}

	order, err := trackorder.Build(mi, cfg, upmost, usable)
	if err != nil {
		return err
	}

	flags, err := trackorder.ResolveDispositions(mi, cfg, upmost, order)
	if err != nil {
		return err
	}

	plan, err := retiming.BuildPlan(mi, cfg, order)
	if err != nil && !muxerr.IsOkExit(err) {
		return err
	}
	if plan != nil {
		tempDir := cfg.Output.TempDir
		if tempDir == "" {
			tempDir = filepath.Join(os.TempDir(), "mux-media")
		}
		if err := os.MkdirAll(tempDir, 0o755); err != nil {
			return err
		}
		retimed, err := retiming.Apply(mi, cfg, plan, order, tempDir, groupID)
		if err != nil {
			return err
		}
		order = retimed
		log.Render("retiming engaged for group %q: base=%s parts=%d", g.Stem, plan.Base, len(plan.Parts))
	}

	outPath, err := outputPath(cfg, g)
	if err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err == nil {
		log.Warn("output already exists, skipping group %q: %s", g.Stem, outPath)
		return muxerr.OkExitf("output already exists: %s", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	args, err := buildArgs(mi, cfg, upmost, order, flags, outPath)
	if err != nil {
		return err
	}

	log.Info("muxing group %q -> %s (%d tracks)", g.Stem, outPath, len(order))
	runner := mi.ToolsRunner()
	tool := tools.Mkvmerge
	if !cfg.Muxer.IsDefault() {
		tool = tools.Ffmpeg
	}
	if _, err := runner.Run(ctx, tool, args...); err != nil {
		return err
	}
	log.Success("wrote %s", outPath)
	return nil
}

// outputPath expands cfg.Output.Pattern ("name_begin,name_tail.ext") with
// the group's resolved middle segment (§6 naming pattern grammar).
func outputPath(cfg *config.Config, g input.Group) (string, error) {
	pattern := cfg.Output.Pattern
	if pattern == "" {
		pattern = "muxed/name_tail.ext"
	}
	name := strings.ReplaceAll(pattern, "name_tail", g.OutNameMiddle)
	name = strings.ReplaceAll(name, "name_begin", g.OutNameMiddle)
	name = strings.TrimSuffix(name, ".ext")
	if !strings.HasSuffix(strings.ToLower(name), ".mkv") && !strings.HasSuffix(strings.ToLower(name), ".mp4") {
		name += ".mkv"
	}
	dir := cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(g.Files[0])
	}
	return filepath.Join(dir, name), nil
}
