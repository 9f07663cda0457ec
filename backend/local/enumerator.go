package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/driftfs/vfs"
)

// dirEnumerator streams directory entries, grounded on the teacher's
// List (backend/local/local.go), which reads names in batches via
// Readdirnames and Lstats each one, rather than loading the whole
// directory into memory with os.ReadDir.
type dirEnumerator struct {
	backend *Backend
	dirPath string
	f       *os.File
	attrs   string
	names   []string
	closed  bool
}

const enumeratorBatchSize = 256

func (e *dirEnumerator) Next(ctx context.Context) (vfs.Entry, bool, error) {
	if e.closed {
		return vfs.Entry{}, false, vfs.ErrClosed
	}
	if err := vfs.CheckCancel(ctx); err != nil {
		return vfs.Entry{}, false, err
	}

	for len(e.names) == 0 {
		names, err := e.f.Readdirnames(enumeratorBatchSize)
		if len(names) == 0 {
			if err != nil {
				return vfs.Entry{}, false, nil
			}
			continue
		}
		e.names = names
	}

	name := e.names[0]
	e.names = e.names[1:]

	child := &Handle{backend: e.backend, path: filepath.Join(e.dirPath, name)}
	info, err := child.QueryInfo(ctx, e.attrs)
	if err != nil {
		if vfs.KindOf(err) == vfs.KindNotFound {
			// Raced with a concurrent removal; skip it the way the
			// teacher's List tolerates entries vanishing mid-scan.
			return e.Next(ctx)
		}
		return vfs.Entry{}, false, err
	}
	return vfs.Entry{Info: info, Child: child}, true, nil
}

func (e *dirEnumerator) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.f.Close(); err != nil {
		return vfs.FromOS(err, "closedir: "+e.dirPath)
	}
	return nil
}
