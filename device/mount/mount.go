// Package mount implements the mount-table device backend: it parses
// /proc/self/mountinfo via moby/sys/mountinfo and classifies each
// mountpoint (read-only, system-internal, ejectable, icon) the way a
// desktop shell would present it.
//
// Grounded on the original MountBackend (original_source/src/backend/
// mount.rs), which was left a deliberate NotSupported placeholder
// ("Requires libmount integration... Future implementation will parse
// /proc/self/mountinfo"); this fills that placeholder in, and on the
// teacher's own evidenced use of moby/sys/mountinfo in
// backend/local/changenotify_other.go (mountinfo.GetMounts/
// ParentsFilter).
package mount

import (
	"context"
	"sort"
	"strings"

	"github.com/moby/sys/mountinfo"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/driftfs/vfs"
)

// Entry is one mounted filesystem, classified for presentation.
type Entry struct {
	MountPoint     string
	Source         string
	FSType         string
	Options        string
	ReadOnly       bool
	SystemInternal bool
	Ejectable      bool
	Icon           string
	FreeBytes      uint64
	TotalBytes     uint64
}

// systemFSTypes mirrors the pseudo-filesystems a desktop shell
// conventionally hides from its places sidebar.
var systemFSTypes = map[string]bool{
	"proc": true, "sysfs": true, "devtmpfs": true, "devpts": true,
	"tmpfs": true, "cgroup": true, "cgroup2": true, "pstore": true,
	"bpf": true, "tracefs": true, "debugfs": true, "mqueue": true,
	"securityfs": true, "configfs": true, "autofs": true, "rpc_pipefs": true,
	"fusectl": true, "binfmt_misc": true, "overlay": true, "squashfs": true,
}

// isRemovableSource reports whether source is a device path
// conventionally backed by removable media (USB mass storage, SD
// readers, optical drives).
func isRemovableSource(source string) bool {
	return strings.HasPrefix(source, "/dev/sd") || strings.HasPrefix(source, "/dev/mmcblk") ||
		strings.HasPrefix(source, "/dev/sr")
}

// Backend lists and classifies the system's mounted filesystems.
type Backend struct{}

// NewBackend constructs a mount-table Backend.
func NewBackend() *Backend { return &Backend{} }

// List returns every current mount, classified.
func (b *Backend) List(ctx context.Context) ([]Entry, error) {
	if err := vfs.CheckCancel(ctx); err != nil {
		return nil, err
	}
	infos, err := mountinfo.GetMounts(nil)
	if err != nil {
		return nil, vfs.FromOS(err, "read mountinfo")
	}
	out := make([]Entry, 0, len(infos))
	for _, mi := range infos {
		e := classify(mi)
		if !e.SystemInternal {
			if usage, err := disk.UsageWithContext(ctx, e.MountPoint); err == nil {
				e.FreeBytes = usage.Free
				e.TotalBytes = usage.Total
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MountPoint < out[j].MountPoint })
	return out, nil
}

// ForPath returns the mount entry that most specifically covers path,
// mirroring the original get_mount_for_path intent (original_source/
// src/model/devices.rs): the mount table is walked for the
// longest-matching mountpoint prefix.
func (b *Backend) ForPath(ctx context.Context, path string) (Entry, bool, error) {
	entries, err := b.List(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	var best Entry
	found := false
	for _, e := range entries {
		if !strings.HasPrefix(path, e.MountPoint) {
			continue
		}
		if !found || len(e.MountPoint) > len(best.MountPoint) {
			best = e
			found = true
		}
	}
	return best, found, nil
}

func classify(mi *mountinfo.Info) Entry {
	ro := false
	for _, opt := range strings.Split(mi.Options, ",") {
		if opt == "ro" {
			ro = true
			break
		}
	}
	removable := isRemovableSource(mi.Source)
	icon := "drive-harddisk"
	switch {
	case removable:
		icon = "drive-removable-media"
	case mi.FSType == "nfs" || mi.FSType == "nfs4" || mi.FSType == "cifs":
		icon = "folder-remote"
	case systemFSTypes[mi.FSType]:
		icon = "folder-system"
	}
	return Entry{
		MountPoint:     mi.Mountpoint,
		Source:         mi.Source,
		FSType:         mi.FSType,
		Options:        mi.Options,
		ReadOnly:       ro,
		SystemInternal: systemFSTypes[mi.FSType],
		Ejectable:      removable,
		Icon:           icon,
	}
}
