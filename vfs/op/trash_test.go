package op

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashNativeMovesFileAndWritesInfo(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "doomed.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("bye"), 0o644))

	trashedPath, err := TrashNative(srcPath)
	require.NoError(t, err)
	assert.FileExists(t, trashedPath)
	assert.NoFileExists(t, srcPath)

	infoPath := filepath.Join(dataHome, "Trash", "info", "doomed.txt.trashinfo")
	info, err := os.ReadFile(infoPath)
	require.NoError(t, err)
	assert.Contains(t, string(info), "[Trash Info]")
	assert.Contains(t, string(info), "Path="+srcPath)
}

func TestTrashNativeResolvesNameCollision(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	srcDir := t.TempDir()
	first := filepath.Join(srcDir, "dup.txt")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	_, err := TrashNative(first)
	require.NoError(t, err)

	second := filepath.Join(srcDir, "dup.txt")
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))
	trashedPath, err := TrashNative(second)
	require.NoError(t, err)
	assert.True(t, strings.Contains(filepath.Base(trashedPath), "dup 1"))
}

func TestPercentEncodePathPreservesSlashes(t *testing.T) {
	got := percentEncodePath("/home/user/my file.txt")
	assert.Equal(t, "/home/user/my%20file.txt", got)
}
