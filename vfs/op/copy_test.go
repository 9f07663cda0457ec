package op

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/backend/local"
)

func newLocalHandle(t *testing.T, path string) vfs.File {
	t.Helper()
	b := local.NewBackend(local.Options{})
	u := vfs.URI("file://" + path)
	f, err := b.Resolve(context.Background(), u)
	require.NoError(t, err)
	return f
}

func TestCopyStreamsThroughFallbackWithProgress(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("hello world"), 0o644))

	src := newLocalHandle(t, srcPath)
	dst := newLocalHandle(t, filepath.Join(dir, "dst.txt"))

	var lastDone, lastTotal int64
	calls := 0
	err := Copy(context.Background(), src, dst, vfs.CopyNone, func(done, total int64) {
		calls++
		lastDone, lastTotal = done, total
	})
	require.NoError(t, err)
	assert.Greater(t, calls, 0)
	assert.Equal(t, int64(11), lastDone)
	assert.Equal(t, int64(11), lastTotal)

	got, err := os.ReadFile(filepath.Join(dir, "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestCopyRefusesExistingDestinationWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.txt")
	dstPath := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(dstPath, []byte("b"), 0o644))

	src := newLocalHandle(t, srcPath)
	dst := newLocalHandle(t, dstPath)

	err := Copy(context.Background(), src, dst, vfs.CopyNone, nil)
	require.Error(t, err)
	assert.Equal(t, vfs.KindExists, vfs.KindOf(err))
}

func TestCopyBackupAsideRenamesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.txt")
	dstPath := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dstPath, []byte("old"), 0o644))

	src := newLocalHandle(t, srcPath)
	dst := newLocalHandle(t, dstPath)

	require.NoError(t, Copy(context.Background(), src, dst, vfs.CopyBackup, nil))

	got, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	backup, err := os.ReadFile(dstPath + "~")
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))
}
