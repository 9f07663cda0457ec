package mount

import (
	"testing"

	"github.com/moby/sys/mountinfo"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMarksSystemAndRemovableMounts(t *testing.T) {
	sys := classify(&mountinfo.Info{Mountpoint: "/proc", FSType: "proc", Source: "proc"})
	assert.True(t, sys.SystemInternal)
	assert.Equal(t, "folder-system", sys.Icon)

	removable := classify(&mountinfo.Info{Mountpoint: "/media/usb", FSType: "vfat", Source: "/dev/sdb1"})
	assert.True(t, removable.Ejectable)
	assert.Equal(t, "drive-removable-media", removable.Icon)

	net := classify(&mountinfo.Info{Mountpoint: "/mnt/nfs", FSType: "nfs", Source: "server:/export"})
	assert.Equal(t, "folder-remote", net.Icon)
	assert.False(t, net.SystemInternal)
}

func TestClassifyDetectsReadOnlyOption(t *testing.T) {
	e := classify(&mountinfo.Info{Mountpoint: "/mnt/ro", FSType: "ext4", Source: "/dev/sda2", Options: "ro,noatime"})
	assert.True(t, e.ReadOnly)
}

func TestIsRemovableSource(t *testing.T) {
	assert.True(t, isRemovableSource("/dev/sdb1"))
	assert.True(t, isRemovableSource("/dev/mmcblk0p1"))
	assert.False(t, isRemovableSource("/dev/nvme0n1p1"))
}
