//go:build !openbsd && !plan9

package local

import (
	"strings"
	"syscall"

	"github.com/pkg/xattr"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/internal/xlog"
)

// xattrPrefix mirrors the teacher's user-namespace convention
// (backend/local/xattr.go) for storing arbitrary metadata outside the
// attributes this backend understands natively.
const xattrPrefix = "user."

// xattrIsNotSupported mirrors the teacher's Fs.xattrIsNotSupported: once
// the filesystem reports xattrs unsupported, stop trying for the
// lifetime of the backend.
func (b *Backend) xattrIsNotSupported(err error) bool {
	xerr, ok := err.(*xattr.Error)
	if !ok {
		return false
	}
	if xerr.Err == syscall.EINVAL || xerr.Err == syscall.ENOTSUP || xerr.Err == xattr.ENOATTR {
		if b.xattrSupported.CompareAndSwap(1, 0) {
			xlog.Errorf(nil, "xattrs not supported - disabling: %v", err)
		}
		return true
	}
	return false
}

// getXattrs returns this handle's extended attributes as xattr::-keyed
// vfs.Values, grounded on the teacher's Object.getXattr.
func (h *Handle) getXattrs() (vfs.Attrs, error) {
	if !xattr.XATTR_SUPPORTED || h.backend.xattrSupported.Load() == 0 {
		return nil, nil
	}
	var list []string
	var err error
	if h.backend.opt.FollowSymlinks {
		list, err = xattr.List(h.path)
	} else {
		list, err = xattr.LList(h.path)
	}
	if err != nil {
		if h.backend.xattrIsNotSupported(err) {
			return nil, nil
		}
		return nil, vfs.FromOS(err, "list xattr: "+h.path)
	}
	if len(list) == 0 {
		return nil, nil
	}

	out := vfs.NewAttrs()
	for _, k := range list {
		var v []byte
		if h.backend.opt.FollowSymlinks {
			v, err = xattr.Get(h.path, k)
		} else {
			v, err = xattr.LGet(h.path, k)
		}
		if err != nil {
			if h.backend.xattrIsNotSupported(err) {
				return nil, nil
			}
			return nil, vfs.FromOS(err, "get xattr "+k+": "+h.path)
		}
		lower := strings.ToLower(k)
		if !strings.HasPrefix(lower, xattrPrefix) {
			continue
		}
		name := lower[len(xattrPrefix):]
		out.Set(vfs.AttrXattrPrefix+name, vfs.BytesValue(v))
	}
	return out, nil
}

// setXattr stores a single xattr::-prefixed attribute, grounded on the
// teacher's Object.setXattr.
func (h *Handle) setXattr(key string, value vfs.Value) error {
	if !strings.HasPrefix(key, vfs.AttrXattrPrefix) {
		return vfs.NewError(vfs.KindNotSupported, "unknown attribute: "+key)
	}
	if !xattr.XATTR_SUPPORTED || h.backend.xattrSupported.Load() == 0 {
		return nil
	}
	name := xattrPrefix + strings.TrimPrefix(key, vfs.AttrXattrPrefix)
	v, ok := value.AsBytes()
	if !ok {
		v = []byte(value.String())
	}

	var err error
	if h.backend.opt.FollowSymlinks {
		err = xattr.Set(h.path, name, v)
	} else {
		err = xattr.LSet(h.path, name, v)
	}
	if err != nil {
		if h.backend.xattrIsNotSupported(err) {
			return nil
		}
		return vfs.FromOS(err, "set xattr "+name+": "+h.path)
	}
	return nil
}
