package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mtakeda/gifilter/internal/gitignore"
	"github.com/mtakeda/gifilter/internal/ignorefile"
)

// Options configures one scan session. Pattern order is significant: the
// root ignore file is registered first, then CustomPatterns, then
// GlobalPatterns.
type Options struct {
	CaseSensitive  bool
	Workers        int // <= 0 selects runtime.NumCPU()
	CustomPatterns []string
	GlobalPatterns []string
	Logger         zerolog.Logger
}

// Stats summarizes one scan session.
type Stats struct {
	Files     int           // files in the final list
	Tasks     int           // subtree tasks dispatched
	Workers   int           // pool size used
	Patterns  int           // baseline pattern count
	CacheHits uint64        // aggregated over all task caches
	CacheMiss uint64
	Elapsed   time.Duration
}

// HitRatio returns the aggregate cache hit ratio, 0 before any access.
func (s Stats) HitRatio() float64 {
	total := s.CacheHits + s.CacheMiss
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// task is the immutable input bundle one worker receives.
type task struct {
	dir      string              // absolute subtree path
	baseline *gitignore.Registry // this task's private clone
}

// taskResult carries one subtree's contribution back to the orchestrator.
type taskResult struct {
	files map[string]struct{}
	stats gitignore.Stats
}

// Scan filters the tree rooted at root and returns the surviving files as a
// sorted, deduplicated list of root-relative slash-separated paths. root must
// be an absolute path to an existing directory; failure to enumerate it is
// returned as-is for the caller to classify. Subtree failures are absorbed.
func Scan(root string, opts Options) ([]string, Stats, error) {
	start := time.Now()
	log := opts.Logger

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	baseline := buildBaseline(root, opts, log)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, Stats{}, err
	}

	files := make(map[string]struct{})
	var dirs []string
	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" || name == IgnoreFileName || entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			if !baseline.Ignored(name, true) {
				dirs = append(dirs, filepath.Join(root, name))
			}
			continue
		}
		if !baseline.Ignored(name, false) {
			files[name] = struct{}{}
		}
	}

	stats := Stats{
		Tasks:    len(dirs),
		Workers:  workers,
		Patterns: baseline.Len(),
	}
	base := baseline.CacheStats()
	stats.CacheHits += base.Hits
	stats.CacheMiss += base.Misses

	for res := range runTasks(root, baseline, dirs, workers, log) {
		for rel := range res.files {
			files[rel] = struct{}{}
		}
		stats.CacheHits += res.stats.Hits
		stats.CacheMiss += res.stats.Misses
	}

	out := make([]string, 0, len(files))
	for rel := range files {
		out = append(out, rel)
	}
	sort.Strings(out)

	stats.Files = len(out)
	stats.Elapsed = time.Since(start)
	log.Debug().
		Int("files", stats.Files).
		Int("tasks", stats.Tasks).
		Int("workers", stats.Workers).
		Dur("elapsed", stats.Elapsed).
		Msg("scan complete")
	return out, stats, nil
}

// buildBaseline assembles the session's shared pattern list: root ignore
// file, then custom overlay patterns, then global excludes patterns. Exact
// duplicate lines are dropped, keeping the first occurrence; order is
// otherwise preserved.
func buildBaseline(root string, opts Options, log zerolog.Logger) *gitignore.Registry {
	rootLines, err := ignorefile.ReadLines(filepath.Join(root, IgnoreFileName))
	if err != nil {
		log.Warn().Err(err).Msg("root ignore file unreadable")
	}

	seen := make(map[string]struct{})
	var lines []string
	appendLines := func(in []string) {
		for _, line := range in {
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			lines = append(lines, line)
		}
	}
	appendLines(rootLines)
	appendLines(opts.CustomPatterns)
	appendLines(opts.GlobalPatterns)

	reg := gitignore.NewRegistry(opts.CaseSensitive)
	reg.AddLines(lines, "")
	return reg
}

// runTasks dispatches one walk per subtree over a fixed-size worker pool and
// returns the channel results arrive on. Each task gets its own baseline
// clone and cache; workers share nothing mutable. A task that fails or
// panics contributes an empty result and never disturbs its siblings.
func runTasks(root string, baseline *gitignore.Registry, dirs []string, workers int, log zerolog.Logger) <-chan taskResult {
	tasks := make(chan task)
	results := make(chan taskResult, len(dirs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				results <- runTask(root, t, log)
			}
		}()
	}

	go func() {
		for _, dir := range dirs {
			tasks <- task{dir: dir, baseline: baseline.Clone()}
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	return results
}

func runTask(root string, t task, log zerolog.Logger) (res taskResult) {
	res.files = map[string]struct{}{}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("dir", t.dir).Msgf("scan task panic: %v", r)
			res = taskResult{files: map[string]struct{}{}}
		}
	}()

	w := NewWalker(root, t.baseline, log)
	files, err := w.Walk(t.dir)
	if err != nil {
		log.Warn().Str("dir", t.dir).Err(err).Msg("scan task failed, subtree skipped")
		return res
	}
	res.files = files
	res.stats = t.baseline.CacheStats()
	return res
}
