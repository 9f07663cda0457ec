package vfs

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Backend resolves URIs under one or more URI schemes into File
// handles. Grounded on the teacher's fs.RegInfo/fs.Register scheme
// dispatch (backend/alias/alias.go's init/fs.Register(fsi)), adapted
// from rclone's "remote name -> Fs constructor" model to spec §3's
// "scheme -> backend" model.
type Backend interface {
	// Scheme is the URI scheme this backend handles, e.g. "file" or
	// "trash".
	Scheme() string
	// Resolve returns a File handle for u, which is guaranteed to have
	// u.Scheme() == Scheme(). Resolve does not touch the underlying
	// resource; it only builds an address.
	Resolve(ctx context.Context, u URI) (File, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

// Register installs b under b.Scheme(), replacing any previous backend
// for that scheme. Intended to be called from backend package init()
// functions, mirroring the teacher's fs.Register(fsi) convention.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Scheme()] = b
}

// Resolve looks up the backend registered for u's scheme and asks it to
// build a handle. Returns ErrNotSupported if no backend is registered.
func Resolve(ctx context.Context, u URI) (File, error) {
	u = u.Normalize()
	registryMu.RLock()
	b, ok := registry[u.Scheme()]
	registryMu.RUnlock()
	if !ok {
		return nil, NewError(KindNotSupported, fmt.Sprintf("no backend registered for scheme %q", u.Scheme()))
	}
	return b.Resolve(ctx, u)
}

// Schemes returns the currently registered scheme names, sorted, for
// diagnostics and CLI help text.
func Schemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for s := range registry {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
