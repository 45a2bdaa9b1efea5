// Package gitconfig resolves the two git settings the scan engine consults:
// core.ignorecase and core.excludesFile. Every lookup failure (no git binary,
// no enclosing repository, unset key) degrades to "no value"; this package
// never propagates errors.
package gitconfig

import (
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
)

// CaseSensitiveDefault returns the session default for case-sensitive
// matching, derived from core.ignorecase as git resolves it for dir.
// Without a usable config the default is case-sensitive.
func CaseSensitiveDefault(dir string) bool {
	v, ok := configValue(dir, "core.ignorecase")
	if !ok {
		return true
	}
	return !isTrue(v)
}

// ExcludesFile returns the resolved core.excludesFile path, falling back to
// the XDG location ($XDG_CONFIG_HOME/git/ignore, else ~/.config/git/ignore).
// The second return is false when no candidate path exists on disk.
func ExcludesFile(dir string) (string, bool) {
	if v, ok := configValue(dir, "core.excludesFile"); ok {
		if path, err := expandTilde(v); err == nil && isFile(path) {
			return path, true
		}
	}

	path := xdgIgnorePath()
	if path != "" && isFile(path) {
		return path, true
	}
	return "", false
}

// configValue runs git config from dir so repository-local settings win over
// global ones, exactly as git resolves them.
func configValue(dir, key string) (string, bool) {
	cmd := exec.Command("git", "config", "--get", key)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "", false
	}
	return v, true
}

// isTrue interprets git's boolean spellings.
func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}

func xdgIgnorePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// expandTilde expands ~ and ~user path prefixes.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	var userPart, rest string
	if i := strings.IndexByte(path, '/'); i >= 0 {
		userPart, rest = path[:i], path[i:]
	} else {
		userPart = path
	}

	var home string
	if userPart == "~" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = dir
	} else {
		u, err := user.Lookup(userPart[1:])
		if err != nil {
			return "", err
		}
		home = u.HomeDir
	}
	return home + rest, nil
}
