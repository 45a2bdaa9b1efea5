package gitconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTrue(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "yes", "on", "1"} {
		assert.True(t, isTrue(v), v)
	}
	for _, v := range []string{"false", "no", "off", "0", "", "maybe"} {
		assert.False(t, isTrue(v), v)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandTilde("~/ignore")
	require.NoError(t, err)
	assert.Equal(t, home+"/ignore", got)

	got, err = expandTilde("/absolute/path")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", got)

	got, err = expandTilde("relative/path")
	require.NoError(t, err)
	assert.Equal(t, "relative/path", got)
}

func TestXDGIgnorePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, filepath.Join("/tmp/xdg-test", "git", "ignore"), xdgIgnorePath())
}

func TestCaseSensitiveDefault_NoRepository(t *testing.T) {
	// A bare temp dir has no enclosing repository and no usable config; the
	// lookup must degrade to the case-sensitive default rather than fail.
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)

	assert.True(t, CaseSensitiveDefault(t.TempDir()))
}

func TestExcludesFile_NoCandidates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_SYSTEM", os.DevNull)

	_, ok := ExcludesFile(t.TempDir())
	assert.False(t, ok)
}
