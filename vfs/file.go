package vfs

import "context"

// CreateFlags controls create_file/replace semantics, spec §4.2.
type CreateFlags int

// Create flags.
const (
	// CreatePrivate requests the backend create the file with
	// owner-only permissions when the backend supports it.
	CreatePrivate CreateFlags = 1 << iota
	// CreateReplaceDestination allows an existing destination to be
	// replaced rather than failing with ErrExists.
	CreateReplaceDestination
)

// File is the polymorphic handle contract every backend's objects
// implement (spec §4.2), grounded on the teacher's Fs/Object split in
// backend/local/local.go: a File plays both roles depending on whether
// QueryInfo reports TypeDirectory or TypeRegular/TypeSymbolicLink.
//
// All operations are cancellable via ctx and must return a *Error
// wrapping ErrCancelled (context.Canceled) promptly when ctx is done —
// spec §5's cooperative-cancellation contract, translated from the
// original Cancellable/Notify pattern onto context.Context.
type File interface {
	// URI returns this handle's own, already-normalized address.
	URI() URI
	// Basename returns the final path element of URI().
	Basename() string
	// Parent returns a handle to the containing directory, or ok=false
	// if this handle is already a root.
	Parent() (File, bool)
	// Child returns a handle to a direct child named name. This does
	// not touch the backend; existence is only known after QueryInfo.
	Child(name string) File

	// QueryInfo fetches the attributes named by attrs (a Matches
	// pattern, e.g. "standard::*,time::modified") for this resource.
	QueryInfo(ctx context.Context, attrs string) (Attrs, error)
	// SetAttribute stores a single attribute, where the backend
	// supports mutating it (e.g. unix::mode, time::modified).
	SetAttribute(ctx context.Context, key string, value Value) error
	// Exists is a convenience wrapper around QueryInfo that folds
	// ErrNotFound into (false, nil).
	Exists(ctx context.Context) (bool, error)

	// Read opens this resource for sequential reading.
	Read(ctx context.Context) (ByteSource, error)
	// Replace opens this resource for writing, truncating or creating
	// it as needed. When flags includes CreateReplaceDestination an
	// existing resource is overwritten; otherwise a pre-existing
	// directory is rejected with ErrIsDirectory.
	Replace(ctx context.Context, flags CreateFlags) (ByteSink, error)
	// CreateFile opens this resource for writing, failing with
	// ErrExists if it is already present (exclusive create).
	CreateFile(ctx context.Context, flags CreateFlags) (ByteSink, error)
	// AppendTo opens this resource for writing at its current end.
	AppendTo(ctx context.Context) (ByteSink, error)

	// MakeDirectory creates this resource as an empty directory. The
	// parent must already exist.
	MakeDirectory(ctx context.Context) error
	// EnumerateChildren returns an Enumerator over this resource's
	// direct children, fetching attrs for each the same as QueryInfo.
	EnumerateChildren(ctx context.Context, attrs string) (Enumerator, error)

	// Delete removes this resource directly (files, or empty
	// directories per the backend's rules).
	Delete(ctx context.Context) error
	// Trash moves this resource to the backend's trash location,
	// returning ErrNotSupported where no trash exists for the scheme.
	Trash(ctx context.Context) error

	// Copy duplicates this resource's contents to dst. progress, if
	// non-nil, is invoked periodically with (bytesDone, bytesTotal);
	// bytesTotal is 0 when unknown. Returns ErrNotSupported to signal
	// the caller should fall back to a generic stream-based copy.
	Copy(ctx context.Context, dst File, flags CopyFlags, progress ProgressFunc) error
	// MoveTo relocates this resource to dst, analogous to Copy but
	// removing the source on success. Returns ErrNotSupported to
	// signal the caller should fall back to copy+delete.
	MoveTo(ctx context.Context, dst File, flags CopyFlags, progress ProgressFunc) error

	// Monitor starts watching this resource for changes.
	Monitor(ctx context.Context) (Monitor, error)
	// QueryFilesystemInfo reports free/total space and a filesystem
	// type label for the volume backing this resource.
	QueryFilesystemInfo(ctx context.Context) (FilesystemInfo, error)
}

// FilesystemInfo is the result of File.QueryFilesystemInfo, spec §4.2.
type FilesystemInfo struct {
	FSType    string
	FreeBytes uint64
	TotalSize uint64
	ReadOnly  bool
}

// CopyFlags mirrors the original job.rs CopyFlags bitflags, generalized
// to Go's iota-const idiom (spec §4.5).
type CopyFlags int

// Copy/move flags.
const (
	CopyNone CopyFlags = 0
	// CopyOverwrite permits replacing an existing destination.
	CopyOverwrite CopyFlags = 1 << iota
	// CopyBackup renames a pre-existing destination aside (appending
	// "~") instead of deleting it, before writing the new contents.
	CopyBackup
	// CopyNoFallbackForMove disables the copy+delete fallback when a
	// same-backend rename/native move fails (e.g. across devices),
	// surfacing ErrNotSupported to the caller instead.
	CopyNoFallbackForMove
	// CopyTargetDefaultPerms asks for the destination to get its own
	// default permissions. The generic stream copy in op.Copy never
	// carries the source's permissions over, so destinations get
	// default permissions with or without this flag.
	CopyTargetDefaultPerms
)

// ProgressFunc receives cumulative bytes transferred and the total
// expected (0 if unknown), spec §4.5.
type ProgressFunc func(done, total int64)
