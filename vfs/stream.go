package vfs

import "context"

// ByteSource is a readable, closeable stream positioned at a file's
// start (spec §4.3). It is single-producer/single-consumer: the caller
// serializes its own reads.
type ByteSource interface {
	// Read reads into p, returning the suspension-point contract spec
	// §4.3 requires: after Close, further reads fail with ErrClosed.
	Read(ctx context.Context, p []byte) (n int, err error)
	// Close releases the underlying OS resource. Idempotent.
	Close() error
}

// ByteSink is a writable, flushable, closeable stream (spec §4.3).
type ByteSink interface {
	Write(ctx context.Context, p []byte) (n int, err error)
	// Flush forces any buffered data to the underlying resource without
	// closing it.
	Flush() error
	// Close flushes and releases the underlying OS resource. Idempotent.
	Close() error
}
