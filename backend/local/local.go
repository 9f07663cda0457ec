// Package local provides the "file" scheme backend: a thin adapter
// over the native filesystem, grounded on the teacher's backend/local
// package (its Fs/Object split, NewFs/List/Put/Mkdir/Move conventions)
// but re-targeted at the vfs.Backend/vfs.File contracts instead of
// rclone's fs.Fs/fs.Object.
package local

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/driftfs/vfs"
)

// Options configures the local backend, mirroring the handful of the
// teacher's Options fields (backend/local/local.go) that still apply
// once rclone's remote-specific concerns (UNC handling, symlink
// translation suffixes, case-insensitive comparisons) are dropped.
type Options struct {
	// FollowSymlinks makes QueryInfo and the xattr accessors follow
	// symlinks rather than reporting on the link itself. Read, Replace
	// and the other stream operations always follow symlinks.
	FollowSymlinks bool
}

// Backend implements vfs.Backend for the "file" scheme.
type Backend struct {
	opt Options
	// xattrSupported is lazily cleared to 0 the first time the
	// underlying filesystem reports xattrs unsupported, mirroring the
	// teacher's atomic flag in Fs.xattrSupported.
	xattrSupported atomic.Int32
}

// NewBackend constructs a local Backend with the given options.
func NewBackend(opt Options) *Backend {
	b := &Backend{opt: opt}
	b.xattrSupported.Store(1)
	return b
}

func init() {
	vfs.Register(NewBackend(Options{}))
}

// Scheme implements vfs.Backend.
func (b *Backend) Scheme() string { return "file" }

// Resolve implements vfs.Backend.
func (b *Backend) Resolve(ctx context.Context, u vfs.URI) (vfs.File, error) {
	p := filepath.FromSlash(u.Opaque())
	if !filepath.IsAbs(p) {
		p = string(filepath.Separator) + p
	}
	return &Handle{backend: b, path: filepath.Clean(p)}, nil
}

// uriFor builds a file:// URI for a cleaned absolute native path.
func uriFor(path string) vfs.URI {
	return vfs.URI("file://" + filepath.ToSlash(path))
}
