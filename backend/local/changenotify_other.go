//go:build !windows

package local

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/sys/mountinfo"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/internal/xlog"
)

// watchMonitor implements vfs.Monitor over a single fsnotify watch,
// grounded on the teacher's Fs.ChangeNotify (backend/local/
// changenotify_other.go): same NFS-mount refusal, reworked from an
// accumulate-then-poll notifyFunc callback into the uniform
// vfs.EventKind stream. The watch is non-recursive: only the watched
// path itself (and, for a directory, its direct children) is reported.
type watchMonitor struct {
	watcher *fsnotify.Watcher
	ring    *vfs.EventRing
	done    chan struct{}
}

func newWatchMonitor(root string) (*watchMonitor, error) {
	if infos, err := mountinfo.GetMounts(mountinfo.ParentsFilter(root)); err == nil {
		for _, mi := range infos {
			if mi.FSType == "nfs" {
				return nil, vfs.NewError(vfs.KindNotSupported, "change notification is not supported on NFS mounts")
			}
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, vfs.FromOS(err, "create watcher")
	}

	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, vfs.FromOS(err, "watch: "+root)
	}

	m := &watchMonitor{
		watcher: watcher,
		ring:    vfs.NewEventRing(nil),
		done:    make(chan struct{}),
	}
	go m.pump(root)
	return m, nil
}

// watchTree registers watches on root and every directory beneath it,
// matching the teacher's walk-while-watching strategy: the watch on a
// directory is established before its contents are listed, so no
// creation is missed between the two steps.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Already removed by the time we reached it; ignore, as the
			// teacher's walk callback does.
			return nil
		}
		if info.IsDir() {
			if werr := watcher.Add(path); werr != nil {
				xlog.Errorf(path, "Failed to start watching, already removed? %v", werr)
			}
		}
		return nil
	})
}

func (m *watchMonitor) pump(root string) {
	defer m.ring.Close()
	for {
		select {
		case <-m.done:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handle(root, event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			xlog.Errorf(root, "watcher error: %v", err)
		}
	}
}

func (m *watchMonitor) handle(root string, event fsnotify.Event) {
	u := uriFor(event.Name)
	switch {
	case event.Has(fsnotify.Create):
		m.ring.Push(vfs.Event{Kind: vfs.EventCreated, File: u})
	case event.Has(fsnotify.Remove):
		m.ring.Push(vfs.Event{Kind: vfs.EventDeleted, File: u})
	case event.Has(fsnotify.Rename):
		m.ring.Push(vfs.Event{Kind: vfs.EventDeleted, File: u})
	case event.Has(fsnotify.Write):
		m.ring.Push(vfs.Event{Kind: vfs.EventChanged, File: u})
	case event.Has(fsnotify.Chmod):
		m.ring.Push(vfs.Event{Kind: vfs.EventAttributeChanged, File: u})
	}
}

func (m *watchMonitor) Events() <-chan vfs.Event { return m.ring.Out() }

func (m *watchMonitor) Close() error {
	select {
	case <-m.done:
		return nil
	default:
		close(m.done)
	}
	if err := m.watcher.Close(); err != nil {
		return vfs.FromOS(err, "close watcher")
	}
	return nil
}
