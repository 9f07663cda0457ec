package vfs

import "context"

// Entry pairs a child's metadata with a handle to it, as returned from
// an Enumerator (spec §4.4).
type Entry struct {
	Info  Attrs
	Child File
}

// Enumerator is a finite, non-restartable, async producer of directory
// entries (spec §3/§4.4). Implementations populate at minimum
// standard::name and standard::type. The local backend's enumerator,
// grounded on the teacher's Readdirnames-then-Lstat loop in
// backend/local/local.go's List, Lstats every entry; it does not use
// file-type information a directory read can supply inline.
type Enumerator interface {
	// Next returns the next entry, or ok=false at end of the sequence.
	Next(ctx context.Context) (entry Entry, ok bool, err error)
	// Close releases the underlying directory iterator. Idempotent;
	// calling Next after Close fails with ErrClosed.
	Close() error
}
