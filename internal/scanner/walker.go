// Package scanner walks directory trees and applies gitignore resolution,
// fanning independent subtree walks out over a worker pool.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mtakeda/gifilter/internal/gitignore"
	"github.com/mtakeda/gifilter/internal/ignorefile"
)

// IgnoreFileName is the per-directory pattern file the walker discovers.
const IgnoreFileName = ".gitignore"

// Walker performs one sequential recursive traversal of a subtree, extending
// its registry with ignore files it finds along the way. A Walker owns its
// registry and is used by exactly one goroutine.
type Walker struct {
	root     string // absolute scan root
	registry *gitignore.Registry
	seen     map[string]struct{} // ignore files already parsed in this walk
	log      zerolog.Logger
}

// NewWalker creates a Walker rooted at root. Result paths are relative to
// root; registry decisions apply as patterns were scoped at registration.
func NewWalker(root string, registry *gitignore.Registry, log zerolog.Logger) *Walker {
	return &Walker{
		root:     root,
		registry: registry,
		seen:     make(map[string]struct{}),
		log:      log,
	}
}

// Walk scans dir and returns the set of included files as root-relative
// slash-separated paths. Failure to read dir itself is returned; failures in
// nested directories are logged and contribute nothing.
func (w *Walker) Walk(dir string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if err := w.walk(dir, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *Walker) walk(dir string, out map[string]struct{}, top bool) error {
	w.loadIgnoreFile(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if top {
			return err
		}
		w.log.Warn().Str("dir", dir).Err(err).Msg("skipping unreadable directory")
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		// Ignore files configure the scan; neither they nor anything under
		// .git belongs in the result.
		if name == ".git" || name == IgnoreFileName {
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}

		rel := w.relPath(filepath.Join(dir, name))
		if rel == "" {
			continue
		}

		if entry.IsDir() {
			if w.registry.Ignored(rel, true) {
				continue
			}
			if err := w.walk(filepath.Join(dir, name), out, false); err != nil {
				return err
			}
			continue
		}

		if !w.registry.Ignored(rel, false) {
			out[rel] = struct{}{}
		}
	}
	return nil
}

// loadIgnoreFile parses dir's ignore file into the registry, scoped to dir,
// at most once per walk. Unreadable files contribute no patterns.
func (w *Walker) loadIgnoreFile(dir string) {
	path := filepath.Join(dir, IgnoreFileName)
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}

	lines, err := ignorefile.ReadLines(path)
	if err != nil {
		w.log.Warn().Str("path", path).Err(err).Msg("ignore file unreadable")
		return
	}
	if len(lines) == 0 {
		return
	}
	w.registry.AddLines(lines, w.relPath(dir))
}

// relPath converts an absolute path under the scan root to a root-relative
// slash-separated path. The root itself maps to "".
func (w *Walker) relPath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
