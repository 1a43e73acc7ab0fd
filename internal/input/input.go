// Package input implements the grouped input iterator (§4.1): a
// cycle-safe, depth-limited directory walk that discovers media files in
// the input root and groups each with its same-stem siblings across every
// discovered directory, the unit of work the muxer package's worker pool
// consumes one at a time.
//
// Grounded on original_source/src/types/input/iters.rs: DirIter (canonical-
// path cycle guard over a depth-limited walk), iter_media_grouped_by_stem
// (up_stem seed in the root directory, os_str_starts_with prefix match
// against every discovered directory's media files, repeat-stem skip,
// >=2-files requirement unless solo), and MediaNumber's trailing-digit
// extraction used both for --range filtering and numbered output naming.
package input

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nujievik/mux-media-sub000/internal/config"
	"github.com/nujievik/mux-media-sub000/internal/muxerr"
)

// mediaExtensions is the closed set of container extensions this core
// recognizes as a groupable media file (§2 GLOSSARY "media file").
var mediaExtensions = map[string]bool{
	".mkv": true, ".mka": true, ".mks": true, ".webm": true,
	".mp4": true, ".m4v": true, ".m4a": true, ".mov": true,
}

// MediaExtensions returns the closed set of recognized container
// extensions, sorted, for the --list-containers info table.
func MediaExtensions() []string {
	out := make([]string, 0, len(mediaExtensions))
	for ext := range mediaExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Group is one unit of work: a seed stem's media files across the root and
// every discovered subdirectory, plus the output filename's middle segment
// (§4.1 "MediaGroupedByStem").
type Group struct {
	Files         []string
	OutNameMiddle string
	Stem          string
}

// Discover walks cfg.Input.Dir and returns every group a muxer worker
// should process. With Input.Solo, the root directory itself is returned
// as a single group even when it holds only one media file; a root with no
// media files is a GroupEmpty error.
func Discover(cfg *config.Config) ([]Group, error) {
	root := cfg.Input.Dir
	dirs, err := walkDirs(root, cfg.Input.Depth, cfg.Input.Skip)
	if err != nil {
		return nil, err
	}

	if cfg.Input.Solo {
		files := mediaFilesIn(root, cfg.Input.Skip)
		if len(files) == 0 {
			return nil, muxerr.WithKind(muxerr.GroupEmpty, "no media files in "+root)
		}
		return []Group{{Files: files, OutNameMiddle: filepath.Base(root), Stem: filepath.Base(root)}}, nil
	}

	needNum := needsNumbering(root, cfg)
	seen := map[string]bool{}
	var groups []Group

	for _, upStem := range rootStems(root, cfg.Input.Skip) {
		if seen[upStem] {
			continue
		}

		if cfg.Input.Range != nil {
			if n, ok := trailingNumber(upStem); ok {
				if !cfg.Input.Range.Contains(n) {
					continue
				}
			}
		}

		var matched []string
		cntRoot := 0
		for _, dir := range dirs {
			for _, f := range mediaFilesIn(dir, cfg.Input.Skip) {
				stem := stemOf(f)
				if strings.HasPrefix(stem, upStem) {
					matched = append(matched, f)
					if dir == root {
						cntRoot++
					}
				}
			}
		}

		if cntRoot > 1 {
			seen[upStem] = true
		}
		if len(matched) < 2 {
			continue
		}

		middle := upStem
		if needNum {
			if n, ok := trailingNumber(upStem); ok {
				middle = strconv.FormatUint(n, 10)
			}
		}

		groups = append(groups, Group{Files: matched, OutNameMiddle: middle, Stem: upStem})
	}

	if len(groups) == 0 {
		return nil, muxerr.WithKind(muxerr.GroupEmpty, "no groupable media files under "+root)
	}
	return groups, nil
}

// needsNumbering reports whether the root holds at least two media files,
// mirroring Input::init_media_number's probe (peek the second discovered
// file to decide whether numbering applies); file names are not compared.
func needsNumbering(root string, cfg *config.Config) bool {
	files := mediaFilesIn(root, cfg.Input.Skip)
	return len(files) > 1
}

func rootStems(root string, skip []string) []string {
	var out []string
	seenStem := map[string]bool{}
	for _, f := range mediaFilesIn(root, skip) {
		s := stemOf(f)
		if !seenStem[s] {
			seenStem[s] = true
			out = append(out, s)
		}
	}
	return out
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// trailingNumber extracts the trailing run of ASCII digits in stem, the Go
// analogue of MediaNumber's digit-suffix parse.
func trailingNumber(stem string) (uint64, bool) {
	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	if i == len(stem) {
		return 0, false
	}
	n, err := strconv.ParseUint(stem[i:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func mediaFilesIn(dir string, skip []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !mediaExtensions[ext] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if matchesAny(path, skip) {
			continue
		}
		out = append(out, path)
	}
	return out
}

func matchesAny(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
	}
	return false
}

// walkDirs performs the cycle-safe, depth-limited directory walk of
// DirIter: every subdirectory is visited once by canonical (symlink-
// resolved) path, up to depth levels below root, and directories matching
// skip are pruned entirely.
func walkDirs(root string, depth int, skip []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	var walk func(dir string, remaining int) error
	walk = func(dir string, remaining int) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			real = dir
		}
		if seen[real] {
			return nil
		}
		seen[real] = true
		out = append(out, dir)

		if remaining <= 0 {
			return nil
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() && e.Type()&fs.ModeSymlink == 0 {
				continue
			}
			child := filepath.Join(dir, e.Name())
			if matchesAny(child, skip) {
				continue
			}
			info, err := os.Stat(child)
			if err != nil || !info.IsDir() {
				continue
			}
			if err := walk(child, remaining-1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, depth); err != nil {
		return nil, err
	}
	return out, nil
}
