//go:build darwin || dragonfly || freebsd || linux

package local

import (
	"syscall"

	"github.com/driftfs/vfs"
)

// statfsInfo reports filesystem usage for path, grounded directly on
// the teacher's Fs.About (backend/local/about_unix.go)'s
// syscall.Statfs call. Kept on the standard library rather than a
// third-party disk-usage package (e.g. gopsutil/disk, which the device
// package uses for its higher-level volume view) because syscall.Statfs
// is exactly the one-shot, single-path call the teacher itself reaches
// for here, with no abstraction gap a library would close.
func statfsInfo(path string) (vfs.FilesystemInfo, error) {
	var s syscall.Statfs_t
	if err := syscall.Statfs(path, &s); err != nil {
		return vfs.FilesystemInfo{}, vfs.FromOS(err, "statfs: "+path)
	}
	bs := uint64(s.Bsize) // nolint: unconvert
	return vfs.FilesystemInfo{
		FSType:    fsTypeName(s.Type),
		FreeBytes: bs * uint64(s.Bavail),
		TotalSize: bs * s.Blocks,
		ReadOnly:  s.Flags&mountReadOnlyFlag != 0,
	}, nil
}

// mountReadOnlyFlag is ST_RDONLY from <sys/statvfs.h>, exposed by
// syscall.Statfs_t.Flags on Linux.
const mountReadOnlyFlag = 0x1

func fsTypeName(magic int64) string {
	if name, ok := fsTypeMagic[magic]; ok {
		return name
	}
	return "unknown"
}

// fsTypeMagic maps the handful of statfs f_type magic numbers this
// backend names in FilesystemInfo.FSType, per statfs(2)'s documented
// constants; any other filesystem is reported as "unknown".
var fsTypeMagic = map[int64]string{
	0xEF53:     "ext4",
	0x58465342: "xfs",
	0x9123683E: "btrfs",
	0x6969:     "nfs",
	0x65735546: "fuseblk",
	0x4d44:     "vfat",
	0x52654973: "reiserfs",
	0x01021994: "tmpfs",
}
