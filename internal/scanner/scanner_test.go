package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTree(t *testing.T, root string, opts Options) []string {
	t.Helper()
	opts.Logger = zerolog.Nop()
	files, _, err := Scan(root, opts)
	require.NoError(t, err)
	return files
}

func TestScan_RootIgnoreFile(t *testing.T) {
	// Scenario: a.py, a.log, .gitignore = "*.log" -> ["a.py"].
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":       "",
		"a.log":      "",
		".gitignore": "*.log\n",
	})

	assert.Equal(t, []string{"a.py"}, scanTree(t, root, Options{CaseSensitive: true}))
}

func TestScan_NestedNegation(t *testing.T) {
	// Root ignores *.txt; src/.gitignore re-includes them.
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":     "*.txt\n",
		"root.txt":       "",
		"src/.gitignore": "!*.txt\n",
		"src/file.txt":   "",
	})

	assert.Equal(t, []string{"src/file.txt"}, scanTree(t, root, Options{CaseSensitive: true}))
}

func TestScan_CustomPatternsWithNegation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":       "",
		"tests/b.py": "",
	})

	files := scanTree(t, root, Options{
		CaseSensitive:  true,
		CustomPatterns: []string{"*.py", "!tests/*.py"},
	})
	assert.Equal(t, []string{"tests/b.py"}, files)
}

func TestScan_GitSegmentAlwaysExcluded(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".git/config":     "",
		".git/HEAD":       "",
		"sub/.git/config": "",
		"main.go":         "",
	})

	files := scanTree(t, root, Options{
		CaseSensitive: true,
		// Even an explicit re-include cannot bring .git back.
		CustomPatterns: []string{"!.git/"},
	})
	assert.Equal(t, []string{"main.go"}, files)
}

func TestScan_CaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":   "",
		"B.TXT":   "",
		"keep.go": "",
	})

	files := scanTree(t, root, Options{
		CaseSensitive:  false,
		CustomPatterns: []string{"*.TXT"},
	})
	assert.Equal(t, []string{"keep.go"}, files)

	files = scanTree(t, root, Options{
		CaseSensitive:  true,
		CustomPatterns: []string{"*.TXT"},
	})
	assert.Equal(t, []string{"a.txt", "keep.go"}, files)
}

func TestScan_DirectoryOnlyPattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"temp/inside.txt": "",
		"other/temp":      "", // a file literally named temp
		"other/keep.go":   "",
	})

	files := scanTree(t, root, Options{
		CaseSensitive:  true,
		CustomPatterns: []string{"temp/"},
	})
	assert.Equal(t, []string{"other/keep.go", "other/temp"}, files)
}

func TestScan_TopLevelDirectoryPruned(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":                    "node_modules/\n",
		"node_modules/pkg/index.js":     "",
		"node_modules/pkg/sub/index.js": "",
		"app.js":                        "",
	})

	assert.Equal(t, []string{"app.js"}, scanTree(t, root, Options{CaseSensitive: true}))
}

func TestScan_OverlayOrderAndDeduplication(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "*.log\n",
		"a.log":      "",
		"keep.log":   "",
		"b.md":       "",
	})

	// The duplicate "*.log" is dropped; the negation must still follow it.
	files := scanTree(t, root, Options{
		CaseSensitive:  true,
		CustomPatterns: []string{"*.log", "!keep.log"},
		GlobalPatterns: []string{"*.log", "*.md"},
	})
	assert.Equal(t, []string{"keep.log"}, files)
}

func TestScan_SymlinksNeverEmitted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"real.txt":     "",
		"sub/file.txt": "",
	})
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "toplink.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "sublink")))

	files := scanTree(t, root, Options{CaseSensitive: true})
	assert.Equal(t, []string{"real.txt", "sub/file.txt"}, files)
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":     "*.tmp\n",
		"a/one.go":       "",
		"a/two.tmp":      "",
		"b/.gitignore":   "!*.tmp\n",
		"b/three.tmp":    "",
		"c/deep/four.md": "",
	})

	first := scanTree(t, root, Options{CaseSensitive: true})
	second := scanTree(t, root, Options{CaseSensitive: true})
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a/one.go", "b/three.tmp", "c/deep/four.md"}, first)
}

func TestScan_WorkerCountDoesNotChangeResults(t *testing.T) {
	root := t.TempDir()
	tree := map[string]string{".gitignore": "*.skip\n"}
	for _, d := range []string{"a", "b", "c", "d", "e", "f"} {
		tree[d+"/x/y/file.go"] = ""
		tree[d+"/x/y/file.skip"] = ""
		tree[d+"/top.md"] = ""
	}
	writeTree(t, root, tree)

	want := scanTree(t, root, Options{CaseSensitive: true, Workers: 1})
	for _, workers := range []int{2, 4, 16} {
		got := scanTree(t, root, Options{CaseSensitive: true, Workers: workers})
		assert.Equal(t, want, got, "workers=%d", workers)
	}
	assert.Len(t, want, 12)
}

func TestScan_FailedSubtreeDoesNotAbortScan(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory modes are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"good/file.go":   "",
		"locked/file.go": "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, stats, err := Scan(root, Options{CaseSensitive: true, Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, []string{"good/file.go"}, files)
	assert.Equal(t, 2, stats.Tasks)
}

func TestScan_RootEnumerationErrorSurfaces(t *testing.T) {
	_, _, err := Scan(filepath.Join(t.TempDir(), "missing"), Options{CaseSensitive: true})
	assert.Error(t, err)
}

func TestScan_Stats(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "*.log\n",
		"a/f1.go":    "",
		"a/f2.log":   "",
		"b/f3.go":    "",
		"top.go":     "",
	})

	files, stats, err := Scan(root, Options{CaseSensitive: true, Workers: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, []string{"a/f1.go", "b/f3.go", "top.go"}, files)
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 2, stats.Tasks)
	assert.Equal(t, 2, stats.Workers)
	assert.Equal(t, 1, stats.Patterns)
	assert.NotZero(t, stats.CacheMiss)
	assert.GreaterOrEqual(t, stats.HitRatio(), 0.0)
}
