package gitignore

import (
	"strings"
)

// Registry is an ordered, append-only collection of compiled patterns plus
// the match cache for one scan context. Registration order is evaluation
// order. A Registry is exclusively owned by a single scan context and is not
// safe for concurrent use; parallel tasks each take a Clone.
type Registry struct {
	patterns      []*Pattern
	cache         *Cache
	caseSensitive bool
}

// NewRegistry creates an empty Registry. Case sensitivity is fixed for the
// Registry's lifetime and applied to every pattern compiled through it.
func NewRegistry(caseSensitive bool) *Registry {
	return &Registry{
		cache:         NewCache(DefaultCacheCapacity),
		caseSensitive: caseSensitive,
	}
}

// CaseSensitive reports the matching mode the Registry was built with.
func (r *Registry) CaseSensitive() bool { return r.caseSensitive }

// AddLines compiles pattern lines scoped to base and appends them in input
// order. Blank and comment lines are skipped.
func (r *Registry) AddLines(lines []string, base string) {
	for _, line := range lines {
		p, err := Compile(line, base, r.caseSensitive)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, p)
	}
}

// Add appends an already compiled pattern.
func (r *Registry) Add(p *Pattern) {
	r.patterns = append(r.patterns, p)
}

// Patterns returns the registered patterns in evaluation order. The returned
// slice is shared; callers must not mutate it.
func (r *Registry) Patterns() []*Pattern { return r.patterns }

// Len returns the number of registered patterns.
func (r *Registry) Len() int { return len(r.patterns) }

// Clone returns a Registry with the same patterns and a fresh, empty cache.
// Patterns are immutable and shared; the clone may be extended and matched
// independently of the original.
func (r *Registry) Clone() *Registry {
	patterns := make([]*Pattern, len(r.patterns))
	copy(patterns, r.patterns)
	return &Registry{
		patterns:      patterns,
		cache:         NewCache(DefaultCacheCapacity),
		caseSensitive: r.caseSensitive,
	}
}

// CacheStats exposes the owned cache's counters.
func (r *Registry) CacheStats() Stats { return r.cache.Stats() }

// HitRatio exposes the owned cache's hit ratio.
func (r *Registry) HitRatio() float64 { return r.cache.HitRatio() }

// Ignored resolves the ignore decision for a root-relative, slash-separated
// path. Patterns are evaluated in registration order: a plain match marks the
// path ignored but later patterns keep evaluating; a negated match re-includes
// the path and ends evaluation immediately.
func (r *Registry) Ignored(path string, isDir bool) bool {
	path = strings.Trim(path, "/")
	if path == "" || path == "." {
		return false
	}
	if IsGitPath(path) {
		return true
	}

	ignored := false
	for _, p := range r.patterns {
		matched, cached := r.cache.Get(p, path, isDir)
		if !cached {
			matched = p.Match(path, isDir)
			r.cache.Set(p, path, isDir, matched)
		}
		if !matched {
			continue
		}
		if p.Negated() {
			return false
		}
		ignored = true
	}
	return ignored
}

// IsGitPath reports whether any segment of the root-relative path is ".git".
// Such paths are excluded unconditionally, before any pattern runs.
func IsGitPath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".git" {
			return true
		}
	}
	return false
}
