package thumbnail

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintNameMatchesKnownVector(t *testing.T) {
	assert.Equal(t, "6756f54a791d53a4ece8ebb70471b573.png", FingerprintName("file:///tmp/test.png"))
}

func TestSizeBucketsAndDirNames(t *testing.T) {
	cases := []struct {
		size   Size
		pixels int
		dir    string
	}{
		{SizeNormal, 128, "normal"},
		{SizeLarge, 256, "large"},
		{SizeXLarge, 512, "x-large"},
		{SizeXXLarge, 1024, "xx-large"},
	}
	for _, c := range cases {
		assert.Equal(t, c.pixels, c.size.Pixels())
		assert.Equal(t, c.dir, c.size.DirName())
	}
}

func TestGetOrGenerateAndValidity(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dbPath := filepath.Join(t.TempDir(), "thumbs.db")
	fake := func(ctx context.Context, srcPath, dstPath string, pixels int) error {
		return os.WriteFile(dstPath, []byte("fake-png"), 0o644)
	}
	c, err := Open(dbPath, fake)
	require.NoError(t, err)
	defer c.Close()

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "photo.jpg")
	require.NoError(t, os.WriteFile(srcPath, []byte("img"), 0o644))
	uri := "file://" + srcPath

	sourceMtime := time.Now().Add(-time.Hour)
	path, err := c.GetOrGenerate(context.Background(), uri, srcPath, SizeNormal, sourceMtime)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, c.IsValid(uri, SizeNormal, sourceMtime))

	later := time.Now().Add(time.Hour)
	assert.False(t, c.IsValid(uri, SizeNormal, later))
}

func TestCleanupRemovesOldThumbnails(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dir := CacheDir(SizeNormal)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	oldPath := filepath.Join(dir, "old.png")
	require.NoError(t, os.WriteFile(oldPath, []byte("x"), 0o644))
	old := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, old, old))

	dbPath := filepath.Join(t.TempDir(), "thumbs.db")
	c, err := Open(dbPath, nil)
	require.NoError(t, err)
	defer c.Close()

	deleted, err := c.Cleanup(SizeNormal)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, oldPath)
}
