package gitignore

import "strings"

// matchSegments matches pattern segments against path segments. The whole
// path must be consumed; ** spans zero or more segments.
func matchSegments(pattern []segment, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	seg := pattern[0]
	if seg.doubleStar {
		// Collapse runs of ** and try every split point.
		rest := pattern[1:]
		for len(rest) > 0 && rest[0].doubleStar {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return true
		}
		for i := 0; i <= len(path); i++ {
			if matchSegments(rest, path[i:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}
	if !matchSegment(seg, path[0]) {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

// matchSegment matches one pattern segment against one path segment.
func matchSegment(seg segment, s string) bool {
	if !seg.wildcard {
		return seg.value == s
	}
	return matchGlob(seg.value, s)
}

// matchGlob matches a single-segment glob against s. Supported syntax:
// * (any run of characters), ? (one character), [...] character classes with
// ranges and leading ! or ^ negation, and \ escaping the next character.
// Slashes never occur here; segments are split before matching.
func matchGlob(pattern, s string) bool {
	// Fast paths for the overwhelmingly common shapes.
	switch {
	case pattern == "*":
		return true
	case !strings.ContainsAny(pattern, "?[\\"):
		if n := strings.Count(pattern, "*"); n == 1 {
			if strings.HasSuffix(pattern, "*") {
				return strings.HasPrefix(s, pattern[:len(pattern)-1])
			}
			if strings.HasPrefix(pattern, "*") {
				return strings.HasSuffix(s, pattern[1:])
			}
		} else if n == 0 {
			return pattern == s
		}
	}
	return matchGlobRecursive(pattern, s)
}

func matchGlobRecursive(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchGlobRecursive(pattern, s[i:]) {
					return true
				}
			}
			return false

		case '?':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
			continue

		case '[':
			ok, rest, terminated := matchClass(pattern, s)
			if !terminated {
				// Unterminated class: treat the bracket literally.
				if len(s) == 0 || s[0] != '[' {
					return false
				}
				pattern = pattern[1:]
				s = s[1:]
				continue
			}
			if !ok {
				return false
			}
			pattern = rest
			s = s[1:]
			continue

		case '\\':
			if len(pattern) > 1 {
				pattern = pattern[1:]
			}
		}

		if len(s) == 0 || pattern[0] != s[0] {
			return false
		}
		pattern = pattern[1:]
		s = s[1:]
	}
	return len(s) == 0
}

// matchClass matches the leading [...] class in pattern against the first
// byte of s. It returns whether the class matched, the pattern remainder
// after the closing bracket, and whether a closing bracket was found at all.
func matchClass(pattern, s string) (ok bool, rest string, terminated bool) {
	i := 1 // past '['
	negate := false
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		negate = true
		i++
	}

	// Locate the closing bracket first; ']' directly after the opener (or
	// the negation) is a literal member.
	end := -1
	for j := i; j < len(pattern); j++ {
		if pattern[j] == '\\' {
			j++
			continue
		}
		if pattern[j] == ']' && j > i {
			end = j
			break
		}
	}
	if end < 0 {
		return false, "", false
	}
	if len(s) == 0 {
		return false, pattern[end+1:], true
	}

	c := s[0]
	matched := false
	for j := i; j < end; j++ {
		lo := pattern[j]
		if lo == '\\' && j+1 < end {
			j++
			lo = pattern[j]
		}
		if j+2 < end && pattern[j+1] == '-' {
			hi := pattern[j+2]
			if lo <= c && c <= hi {
				matched = true
			}
			j += 2
			continue
		}
		if lo == c {
			matched = true
		}
	}
	if negate {
		matched = !matched
	}
	return matched, pattern[end+1:], true
}
