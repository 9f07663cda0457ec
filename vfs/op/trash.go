package op

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/internal/xdg"
	"github.com/driftfs/vfs/internal/xlog"
)

// TrashNative moves the native absolute path srcPath into the
// freedesktop.org home trash directory ($XDG_DATA_HOME/Trash),
// recording a .trashinfo sidecar, and returns the path it was trashed
// to. It is the shared implementation local-filesystem-backed backends
// call from their File.Trash, since the XDG Trash specification is
// itself filesystem-native and doesn't generalize to remote schemes.
//
// Grounded on the original npio crate's trash handling intent (job.rs's
// CopyFlags/progress model covers copy/move; trash there is a distinct,
// filesystem-specific operation) and on the teacher's own
// percent-encoding-free os.Rename-then-fallback idiom in
// backend/local/local.go's Move.
func TrashNative(srcPath string) (trashedPath string, err error) {
	home := xdg.TrashHome()
	filesDir := filepath.Join(home, "files")
	infoDir := filepath.Join(home, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return "", vfs.FromOS(err, "create trash directory")
		}
	}

	base := filepath.Base(srcPath)
	name, destPath, infoPath := uniqueTrashName(filesDir, infoDir, base)

	info := trashInfoContents(srcPath)
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return "", vfs.FromOS(err, "write trashinfo")
	}

	if err := os.Rename(srcPath, destPath); err != nil {
		if !isCrossDevice(err) {
			_ = os.Remove(infoPath)
			return "", vfs.FromOS(err, "move to trash")
		}
		xlog.Debugf(srcPath, "Can't rename into trash: %v: trying copy", err)
		if cerr := copyThenRemove(srcPath, destPath); cerr != nil {
			_ = os.Remove(infoPath)
			return "", cerr
		}
	}

	_ = name
	return destPath, nil
}

// uniqueTrashName picks a files/<name> that doesn't collide, per the
// spec's "Name collisions ... resolve by appending a distinguishing
// counter" rule, appending " N" (freedesktop convention) before the
// extension.
func uniqueTrashName(filesDir, infoDir, base string) (name, destPath, infoPath string) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 0; ; n++ {
		candidate := base
		if n > 0 {
			candidate = stem + " " + strconv.Itoa(n) + ext
		}
		destPath = filepath.Join(filesDir, candidate)
		infoPath = filepath.Join(infoDir, candidate+".trashinfo")
		if !pathExists(destPath) && !pathExists(infoPath) {
			return candidate, destPath, infoPath
		}
	}
}

func pathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// trashInfoContents builds the .trashinfo file body: an absolute,
// percent-encoded Path (slashes preserved, per XDG Trash spec §2) and
// an ISO-8601 DeletionDate.
func trashInfoContents(srcPath string) string {
	abs := srcPath
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	return fmt.Sprintf(
		"[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		percentEncodePath(abs),
		time.Now().Format("2006-01-02T15:04:05"),
	)
}

// percentEncodePath percent-encodes every byte of p outside the
// unreserved RFC 3986 set, except '/', which XDG's Path= value must
// preserve literally. Hand-rolled rather than net/url.PathEscape
// because PathEscape also escapes '/'; there is no suitable
// third-party percent-encoder in the example pack for this
// slash-preserving variant, so this one case is justified on stdlib
// (documented in the design ledger).
func percentEncodePath(p string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '/':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-' || c == '_' || c == '.' || c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		}
	}
	return b.String()
}

func isCrossDevice(err error) bool {
	return strings.Contains(err.Error(), "cross-device") || strings.Contains(err.Error(), "invalid cross-device link")
}

func copyThenRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return vfs.FromOS(err, "open source for trash copy")
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return vfs.FromOS(err, "stat source for trash copy")
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return vfs.FromOS(err, "create trash file")
	}
	defer out.Close()

	buf := make([]byte, pumpBufferSize)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return vfs.FromOS(werr, "write trash file")
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return vfs.FromOS(rerr, "read source for trash copy")
		}
	}
	if err := out.Close(); err != nil {
		return vfs.FromOS(err, "close trash file")
	}
	return os.Remove(src)
}
