package vfs

import "context"

// CheckCancel returns ErrCancelled wrapping ctx.Err() if ctx has been
// cancelled or its deadline exceeded, otherwise nil. Long-running
// operations (the copy pump, directory enumeration, polling loops) call
// this at natural suspension points, translating the original
// Cancellable::check()/cancelled() pattern onto context.Context (spec
// §5).
func CheckCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return Wrap(KindCancelled, ctx.Err(), "operation cancelled")
	default:
		return nil
	}
}
