// Package gifilter lists the files under a directory tree that survive
// gitignore-style exclusion rules. It combines the tree's nested ignore
// files, caller-supplied overlay patterns, and the user's global excludes
// file, and scans top-level subtrees in parallel.
//
// The minimal entry point is FilterFiles:
//
//	files, err := gifilter.FilterFiles("/path/to/project", gifilter.Options{})
//
// Scan returns the same list together with session statistics (cache hit
// ratio, task counts, elapsed time).
package gifilter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mtakeda/gifilter/internal/gitconfig"
	"github.com/mtakeda/gifilter/internal/ignorefile"
	"github.com/mtakeda/gifilter/internal/scanner"
)

// Options configures one scan session.
type Options struct {
	// CustomPatterns are overlay patterns applied with root scope, in order,
	// after the root ignore file and before the global excludes file.
	CustomPatterns []string

	// CaseSensitive forces the matching mode. Nil defers to git's
	// core.ignorecase for the scanned directory, defaulting to sensitive.
	CaseSensitive *bool

	// Workers sets the scan pool size. Values <= 0 select the hardware
	// concurrency.
	Workers int

	// Logger receives diagnostics for absorbed failures (unreadable ignore
	// files, skipped subtrees). Nil disables logging.
	Logger *zerolog.Logger
}

// Stats describes one completed scan session.
type Stats = scanner.Stats

// Result is the outcome of a Scan call.
type Result struct {
	Files []string
	Stats Stats
}

// FilterFiles returns the sorted, deduplicated list of root-relative file
// paths under dir that are not excluded by ignore rules. It fails with
// *DirectoryNotFoundError when dir is not an existing directory and with
// *PermissionError when dir itself cannot be enumerated.
func FilterFiles(dir string, opts Options) ([]string, error) {
	res, err := Scan(dir, opts)
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

// Scan is FilterFiles plus session statistics.
func Scan(dir string, opts Options) (*Result, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, &DirectoryNotFoundError{Path: dir}
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &DirectoryNotFoundError{Path: dir}
	}

	caseSensitive := gitconfig.CaseSensitiveDefault(root)
	if opts.CaseSensitive != nil {
		caseSensitive = *opts.CaseSensitive
	}

	files, stats, err := scanner.Scan(root, scanner.Options{
		CaseSensitive:  caseSensitive,
		Workers:        opts.Workers,
		CustomPatterns: opts.CustomPatterns,
		GlobalPatterns: globalPatterns(root, log),
		Logger:         log,
	})
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &PermissionError{Path: root, Err: err}
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DirectoryNotFoundError{Path: dir}
		}
		return nil, &PermissionError{Path: root, Err: err}
	}

	return &Result{Files: files, Stats: stats}, nil
}

// globalPatterns loads the user's global excludes file. Any failure along the
// way means no global patterns; it is never an error.
func globalPatterns(root string, log zerolog.Logger) []string {
	path, ok := gitconfig.ExcludesFile(root)
	if !ok {
		return nil
	}
	lines, err := ignorefile.ReadLines(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("global excludes file unreadable")
		return nil
	}
	log.Debug().Str("path", path).Int("patterns", len(lines)).Msg("loaded global excludes")
	return lines
}
