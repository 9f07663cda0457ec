package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftfs/vfs"
)

func newTestBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	return NewBackend(Options{}), dir
}

func TestHandleCreateAndQueryInfo(t *testing.T) {
	b, dir := newTestBackend(t)
	ctx := context.Background()
	h := &Handle{backend: b, path: filepath.Join(dir, "greeting.txt")}

	sink, err := h.CreateFile(ctx, 0)
	require.NoError(t, err)
	_, err = sink.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	info, err := h.QueryInfo(ctx, "standard::*")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.GetSize())
	assert.Equal(t, vfs.TypeRegular, info.GetType())
}

func TestHandleCreateFileExclusiveCollision(t *testing.T) {
	b, dir := newTestBackend(t)
	ctx := context.Background()
	h := &Handle{backend: b, path: filepath.Join(dir, "once.txt")}

	sink, err := h.CreateFile(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	_, err = h.CreateFile(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, vfs.KindExists, vfs.KindOf(err))
}

func TestHandleEnumerateChildren(t *testing.T) {
	b, dir := newTestBackend(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bb"), 0o644))

	h := &Handle{backend: b, path: dir}
	enum, err := h.EnumerateChildren(ctx, "standard::*")
	require.NoError(t, err)
	defer enum.Close()

	names := map[string]int64{}
	for {
		entry, ok, err := enum.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		names[entry.Info.GetString(vfs.AttrStandardName)] = entry.Info.GetSize()
	}
	assert.Equal(t, map[string]int64{"a.txt": 1, "b.txt": 2}, names)
}

func TestHandleDeleteNotFound(t *testing.T) {
	b, dir := newTestBackend(t)
	ctx := context.Background()
	h := &Handle{backend: b, path: filepath.Join(dir, "missing.txt")}

	err := h.Delete(ctx)
	require.Error(t, err)
	assert.Equal(t, vfs.KindNotFound, vfs.KindOf(err))
}

func TestHandleMoveToSameDevice(t *testing.T) {
	b, dir := newTestBackend(t)
	ctx := context.Background()
	src := &Handle{backend: b, path: filepath.Join(dir, "src.txt")}
	sink, err := src.CreateFile(ctx, 0)
	require.NoError(t, err)
	_, _ = sink.Write(ctx, []byte("data"))
	require.NoError(t, sink.Close())

	dst := &Handle{backend: b, path: filepath.Join(dir, "dst.txt")}
	require.NoError(t, src.MoveTo(ctx, dst, vfs.CopyNone, nil))

	exists, err := dst.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = src.QueryInfo(ctx, "standard::*")
	assert.Equal(t, vfs.KindNotFound, vfs.KindOf(err))
}

func TestHandleCancelledContext(t *testing.T) {
	b, dir := newTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &Handle{backend: b, path: dir}

	_, err := h.QueryInfo(ctx, "standard::*")
	require.Error(t, err)
	assert.Equal(t, vfs.KindCancelled, vfs.KindOf(err))
}
