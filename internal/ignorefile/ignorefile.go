// Package ignorefile reads gitignore-syntax files from disk into pattern
// lines. Reading is forgiving: an unreadable file yields no patterns, and
// non-UTF-8 content is retried as ISO-8859-1 before giving up.
package ignorefile

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadLines reads an ignore-pattern file and returns its pattern lines:
// blank lines and #-comments removed, trailing whitespace trimmed, leading
// "!" preserved. Any read failure yields an empty list and the error for the
// caller to log; missing files are not an error.
func ReadLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseLines(content), nil
}

// ParseLines extracts pattern lines from raw ignore-file content.
func ParseLines(content []byte) []string {
	content = decode(content)

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// decode strips a UTF-8 BOM and, when the content is not valid UTF-8,
// reinterprets it as ISO-8859-1. Latin-1 decoding cannot fail, so there is
// always something to parse.
func decode(content []byte) []byte {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(content) {
		return content
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return content
	}
	return decoded
}
