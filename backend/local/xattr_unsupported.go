// The pkg/xattr module doesn't compile for openbsd or plan9.

//go:build openbsd || plan9

package local

import "github.com/driftfs/vfs"

func (b *Backend) xattrIsNotSupported(err error) bool { return true }

func (h *Handle) getXattrs() (vfs.Attrs, error) { return nil, nil }

func (h *Handle) setXattr(key string, value vfs.Value) error {
	return vfs.NewError(vfs.KindNotSupported, "xattrs not supported on this platform")
}
