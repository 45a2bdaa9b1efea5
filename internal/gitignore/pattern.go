// Package gitignore implements gitignore-style pattern compilation and
// resolution for the gifilter scan engine.
package gitignore

import (
	"errors"
	"strings"
)

// ErrEmptyPattern is returned by Compile for lines that carry no pattern
// content: blank lines, comments, and patterns that become empty after
// stripping their markers.
var ErrEmptyPattern = errors.New("gitignore: empty pattern")

// Matcher is the capability set every compiled pattern provides. Paths are
// root-relative and slash-separated.
type Matcher interface {
	Match(path string, isDir bool) bool
	MatchFile(path string) bool
	MatchDirectory(path string) bool
}

// Pattern is a single compiled gitignore rule. Patterns are immutable after
// Compile and safe to share between scan tasks.
type Pattern struct {
	text          string // original line, without the leading "!"
	base          string // directory scope relative to the scan root ("" = root)
	negated       bool
	dirOnly       bool
	anchored      bool
	caseSensitive bool
	alts          [][]segment // brace-expanded alternatives, matched as a union
}

// segment is one "/"-delimited part of a pattern.
type segment struct {
	value      string
	wildcard   bool // contains *, ?, [ or \ and needs glob matching
	doubleStar bool // literal **, matches zero or more path segments
}

// Compile parses one gitignore pattern line into a Pattern. base scopes the
// pattern to a subdirectory of the scan root ("" for root scope). Comment and
// blank lines, and patterns that are empty after processing, return
// ErrEmptyPattern.
func Compile(line, base string, caseSensitive bool) (*Pattern, error) {
	line = trimTrailingSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, ErrEmptyPattern
	}

	// Negation is recorded, never compiled into the matcher. A leading \!
	// escapes the bang instead.
	negated := false
	switch {
	case strings.HasPrefix(line, "\\!"), strings.HasPrefix(line, "\\#"):
		line = line[1:]
	case strings.HasPrefix(line, "!"):
		negated = true
		line = line[1:]
	}

	text := line

	dirOnly := false
	if strings.HasSuffix(line, "/") {
		dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = strings.TrimPrefix(line, "/")
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		// A slash anywhere but the end pins the pattern to its base.
		anchored = true
	}

	if line == "" {
		return nil, ErrEmptyPattern
	}

	if !caseSensitive {
		line = strings.ToLower(line)
	}

	var alts [][]segment
	for _, alt := range expandBraces(line) {
		segs := parseSegments(alt, anchored)
		if len(segs) == 0 {
			continue
		}
		alts = append(alts, segs)
	}
	if len(alts) == 0 {
		return nil, ErrEmptyPattern
	}

	return &Pattern{
		text:          text,
		base:          normalizeBase(base),
		negated:       negated,
		dirOnly:       dirOnly,
		anchored:      anchored,
		caseSensitive: caseSensitive,
		alts:          alts,
	}, nil
}

// Text returns the pattern as written, minus any leading "!".
func (p *Pattern) Text() string { return p.text }

// Base returns the directory scope the pattern was registered under.
func (p *Pattern) Base() string { return p.base }

// Negated reports whether the pattern re-includes matched paths.
func (p *Pattern) Negated() bool { return p.negated }

// DirOnly reports whether the pattern applies to directories exclusively.
func (p *Pattern) DirOnly() bool { return p.dirOnly }

// Anchored reports whether matching starts exactly at the base directory.
func (p *Pattern) Anchored() bool { return p.anchored }

// Match reports whether path matches the pattern. Directory-only patterns
// never match files.
func (p *Pattern) Match(path string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}

	// Scope check: the path must lie under the pattern's base, and matching
	// happens against the remainder.
	if p.base != "" {
		if !strings.HasPrefix(path, p.base+"/") {
			return false
		}
		path = path[len(p.base)+1:]
	}
	if path == "" {
		return false
	}

	if !p.caseSensitive {
		path = strings.ToLower(path)
	}
	segs := splitPath(path)

	for _, alt := range p.alts {
		if matchSegments(alt, segs) {
			return true
		}
	}
	return false
}

// MatchFile reports whether a file path matches the pattern.
func (p *Pattern) MatchFile(path string) bool { return p.Match(path, false) }

// MatchDirectory reports whether a directory path matches the pattern.
func (p *Pattern) MatchDirectory(path string) bool { return p.Match(path, true) }

// parseSegments splits a pattern by "/" and classifies each part. Floating
// patterns (no anchor) get a leading ** so every pattern matches from the
// start of the candidate path.
func parseSegments(pattern string, anchored bool) []segment {
	parts := strings.Split(pattern, "/")
	segs := make([]segment, 0, len(parts)+1)

	if !anchored {
		segs = append(segs, segment{doubleStar: true})
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		seg := segment{value: part}
		if part == "**" {
			seg.doubleStar = true
			seg.value = ""
		} else if strings.ContainsAny(part, "*?[\\") {
			seg.wildcard = true
		}
		segs = append(segs, seg)
	}
	return segs
}

// expandBraces expands one {a,b,...} group into its alternatives. Groups do
// not nest; a line without a complete group is returned as-is.
func expandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}
	end := strings.IndexByte(pattern[open:], '}')
	if end < 0 {
		return []string{pattern}
	}
	end += open

	prefix := pattern[:open]
	suffix := pattern[end+1:]
	var out []string
	for _, alt := range strings.Split(pattern[open+1:end], ",") {
		out = append(out, prefix+alt+suffix)
	}
	return out
}

// normalizeBase normalizes a scope directory to a clean slash-separated
// relative path.
func normalizeBase(base string) string {
	base = strings.ReplaceAll(base, "\\", "/")
	for strings.HasPrefix(base, "./") {
		base = base[2:]
	}
	base = strings.Trim(base, "/")
	if base == "." {
		return ""
	}
	return base
}

// splitPath splits a slash-separated path into segments, dropping empties.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}

// trimTrailingSpace strips trailing spaces and tabs, honoring a backslash
// escape on the final space.
func trimTrailingSpace(line string) string {
	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}
	if end == len(line) {
		return line
	}

	bs := 0
	for i := end - 1; i >= 0 && line[i] == '\\'; i-- {
		bs++
	}
	if bs%2 == 1 && line[end] == ' ' {
		return line[:end-1] + " "
	}
	return line[:end]
}
