package op

import (
	"context"

	"github.com/driftfs/vfs"
)

// Move relocates src to dst. It first offers the source a chance to
// perform a backend-native move (e.g. os.Rename on the same device); if
// that returns vfs.ErrNotSupported, Move falls back to Copy followed by
// Delete, unless flags includes vfs.CopyNoFallbackForMove.
//
// Grounded on the teacher's Fs.Move/DirMove (backend/local/local.go),
// which calls os.Rename and on failure logs "trying copy" and returns
// fs.ErrorCantMove for the caller to retry as copy+delete — here made
// explicit as the fallback path rather than left to the caller.
func Move(ctx context.Context, src, dst vfs.File, flags vfs.CopyFlags, progress vfs.ProgressFunc) error {
	if err := vfs.CheckCancel(ctx); err != nil {
		return err
	}

	err := src.MoveTo(ctx, dst, flags, progress)
	if err == nil {
		return nil
	}
	if vfs.KindOf(err) != vfs.KindNotSupported {
		return err
	}
	if flags&vfs.CopyNoFallbackForMove != 0 {
		return err
	}

	if err := Copy(ctx, src, dst, flags, progress); err != nil {
		return err
	}
	return src.Delete(ctx)
}

// Delete removes file directly, grounded on the original job.rs::delete
// free function.
func Delete(ctx context.Context, file vfs.File) error {
	if err := vfs.CheckCancel(ctx); err != nil {
		return err
	}
	return file.Delete(ctx)
}
