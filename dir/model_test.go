package dir

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftfs/vfs"

	"github.com/driftfs/vfs/backend/local"
)

func TestModelSnapshotAndDelta(t *testing.T) {
	dirPath := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dirPath, "one.txt"), []byte("1"), 0o644))

	b := local.NewBackend(local.Options{})
	ctx := context.Background()
	root, err := b.Resolve(ctx, vfs.URI("file://"+dirPath))
	require.NoError(t, err)

	m, err := Load(ctx, root)
	require.NoError(t, err)
	defer m.Close()

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "one.txt", snap[0].Info.GetString(vfs.AttrStandardName))

	ch, unsub := m.Subscribe()
	defer unsub()

	require.NoError(t, os.WriteFile(filepath.Join(dirPath, "two.txt"), []byte("22"), 0o644))

	select {
	case d := <-ch:
		assert.Equal(t, DeltaAdded, d.Kind)
		assert.Equal(t, "two.txt", d.Entry.Info.GetString(vfs.AttrStandardName))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Added delta")
	}
}
