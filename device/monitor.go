package device

import (
	"context"
	"time"

	"github.com/driftfs/vfs"
)

// MonitorEventKind is the vocabulary VolumeMonitor emits, grounded on
// the original VolumeMonitorEvent enum (original_source/src/service/
// volumemonitor.rs).
type MonitorEventKind int

// Monitor event kinds.
const (
	EventVolumeAdded MonitorEventKind = iota
	EventVolumeRemoved
	EventVolumeChanged
	EventMountAdded
	EventMountRemoved
	EventMountChanged
	EventDriveConnected
	EventDriveDisconnected
	EventDriveChanged
)

// MonitorEvent is a single device-graph change.
type MonitorEvent struct {
	Kind MonitorEventKind
	ID   string
}

// pollInterval matches the original's
// tokio::time::sleep(Duration::from_secs(2)) polling cadence.
const pollInterval = 2 * time.Second

// VolumeMonitor polls an Aggregator on a fixed interval and emits
// Added/Removed/Changed events by taking the symmetric difference
// between successive Graph snapshots, grounded on
// monitor_udev_events's current_uuids/new_uuids set-difference logic.
type VolumeMonitor struct {
	agg   *Aggregator
	out   chan MonitorEvent
	done  chan struct{}
	graph Graph
}

// NewVolumeMonitor constructs a monitor over agg. Call Start to begin
// polling.
func NewVolumeMonitor(agg *Aggregator) *VolumeMonitor {
	return &VolumeMonitor{
		agg:  agg,
		out:  make(chan MonitorEvent, vfs.MonitorChannelCapacity),
		done: make(chan struct{}),
	}
}

// Start loads an initial graph and begins the 2-second poll loop.
func (m *VolumeMonitor) Start(ctx context.Context) error {
	g, err := m.agg.Load(ctx)
	if err != nil {
		return err
	}
	m.graph = g
	go m.loop(ctx)
	return nil
}

// Events returns the channel device-graph changes are delivered on.
func (m *VolumeMonitor) Events() <-chan MonitorEvent { return m.out }

// Stop ends the poll loop and closes Events(). Idempotent.
func (m *VolumeMonitor) Stop() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *VolumeMonitor) loop(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	defer close(m.out)
	for {
		select {
		case <-m.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			next, err := m.agg.Load(ctx)
			if err != nil {
				continue
			}
			m.diff(m.graph, next)
			m.graph = next
		}
	}
}

func (m *VolumeMonitor) diff(old, next Graph) {
	diffSet(old.Volumes, next.Volumes, EventVolumeAdded, EventVolumeRemoved, m.emit)
	diffSet(old.Mounts, next.Mounts, EventMountAdded, EventMountRemoved, m.emit)
	diffSet(old.Drives, next.Drives, EventDriveConnected, EventDriveDisconnected, m.emit)
	diffChanged(old.Volumes, next.Volumes, EventVolumeChanged, m.emit)
	diffChanged(old.Mounts, next.Mounts, EventMountChanged, m.emit)
	diffChanged(old.Drives, next.Drives, EventDriveChanged, m.emit)
}

// diffChanged emits changed for every ID present in both snapshots
// whose properties differ.
func diffChanged[T comparable](oldM, newM map[string]T, changed MonitorEventKind, emit func(MonitorEvent)) {
	for id, o := range oldM {
		if n, ok := newM[id]; ok && n != o {
			emit(MonitorEvent{Kind: changed, ID: id})
		}
	}
}

func diffSet[T any](oldM, newM map[string]T, added, removed MonitorEventKind, emit func(MonitorEvent)) {
	for id := range oldM {
		if _, ok := newM[id]; !ok {
			emit(MonitorEvent{Kind: removed, ID: id})
		}
	}
	for id := range newM {
		if _, ok := oldM[id]; !ok {
			emit(MonitorEvent{Kind: added, ID: id})
		}
	}
}

func (m *VolumeMonitor) emit(ev MonitorEvent) {
	select {
	case m.out <- ev:
	default:
		// Bounded channel is full; drop rather than block the poll
		// loop, matching the broadcast::Sender's own drop-on-full
		// semantics in the original.
	}
}
