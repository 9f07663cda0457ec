// Package dir implements the reactive directory model (spec §4.4's
// enumerate-then-watch pattern lifted to a standing view): an initial
// snapshot of a directory's children plus a broadcast stream of
// Added/Removed/Changed deltas, grounded on the teacher's combination
// of Fs.List (backend/local/local.go) for the snapshot and
// Fs.ChangeNotify for the live updates — generalized here into a single
// subscribable model instead of two separate calls a caller has to
// stitch together themselves.
package dir

import (
	"context"
	"sync"

	"github.com/driftfs/vfs"
)

// DeltaKind is the kind of change a Delta reports.
type DeltaKind int

// Delta kinds.
const (
	DeltaAdded DeltaKind = iota
	DeltaRemoved
	DeltaChanged
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaAdded:
		return "Added"
	case DeltaRemoved:
		return "Removed"
	default:
		return "Changed"
	}
}

// Delta is one change to a Model's child set.
type Delta struct {
	Kind  DeltaKind
	Entry vfs.Entry
}

// subscriberCapacity is the bounded backlog per subscriber before a lag
// is declared and the subscriber is dropped, mirroring
// vfs.MonitorChannelCapacity's bounded, drop-on-overflow policy at the
// next layer up.
const subscriberCapacity = 64

// Model is a live view of a directory's children: Snapshot returns the
// entries known at construction/last refresh, and Subscribe delivers
// Added/Removed/Changed deltas as the underlying monitor reports them.
type Model struct {
	dir vfs.File

	mu       sync.Mutex
	children map[string]vfs.Entry
	subs     map[int]chan Delta
	nextSub  int

	monitor vfs.Monitor
	cancel  context.CancelFunc
	closed  bool
}

// Load builds a Model by enumerating dir's children and starting a
// background monitor to keep it current. The returned Model owns the
// monitor and background goroutine; call Close to release both.
func Load(ctx context.Context, d vfs.File) (*Model, error) {
	m := &Model{dir: d, children: map[string]vfs.Entry{}, subs: map[int]chan Delta{}}

	enum, err := d.EnumerateChildren(ctx, "standard::*,time::modified")
	if err != nil {
		return nil, err
	}
	defer enum.Close()
	for {
		entry, ok, err := enum.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		m.children[entry.Info.GetString(vfs.AttrStandardName)] = entry
	}

	monCtx, cancel := context.WithCancel(context.Background())
	monitor, err := d.Monitor(ctx)
	if err != nil {
		cancel()
		if vfs.KindOf(err) == vfs.KindNotSupported {
			// A Model without live updates is still a valid snapshot;
			// the zero-value monitor fields just mean Subscribe never
			// fires.
			return m, nil
		}
		return nil, err
	}
	m.monitor = monitor
	m.cancel = cancel
	go m.pump(monCtx)
	return m, nil
}

// Snapshot returns the currently known children, in no particular
// order (they are held in a map keyed by name).
func (m *Model) Snapshot() []vfs.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]vfs.Entry, 0, len(m.children))
	for _, e := range m.children {
		out = append(out, e)
	}
	return out
}

// Subscribe registers a new listener for deltas. The channel is closed
// when the Model is closed or the subscriber falls behind by more than
// subscriberCapacity deltas (it is then dropped so a slow consumer
// can't stall others, mirroring the bounded-backlog policy spec §4.4's
// broadcast model requires).
func (m *Model) Subscribe() (<-chan Delta, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan Delta, subscriberCapacity)
	m.subs[id] = ch
	unsub := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
	return ch, unsub
}

func (m *Model) broadcast(d Delta) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		select {
		case ch <- d:
		default:
			// Subscriber is lagging; drop it rather than block the
			// others or the monitor pump.
			delete(m.subs, id)
			close(ch)
		}
	}
}

func (m *Model) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-m.monitor.Events():
			if !ok {
				return
			}
			m.apply(ctx, ev)
		}
	}
}

func (m *Model) apply(ctx context.Context, ev vfs.Event) {
	name := ev.File.Basename()
	switch ev.Kind {
	case vfs.EventDeleted:
		m.mu.Lock()
		entry, existed := m.children[name]
		delete(m.children, name)
		m.mu.Unlock()
		if existed {
			m.broadcast(Delta{Kind: DeltaRemoved, Entry: entry})
		}
	case vfs.EventCreated, vfs.EventChanged, vfs.EventAttributeChanged:
		child := m.dir.Child(name)
		info, err := child.QueryInfo(ctx, "standard::*,time::modified")
		if err != nil {
			return
		}
		entry := vfs.Entry{Info: info, Child: child}
		m.mu.Lock()
		_, existed := m.children[name]
		m.children[name] = entry
		m.mu.Unlock()
		kind := DeltaChanged
		if !existed {
			kind = DeltaAdded
		}
		m.broadcast(Delta{Kind: kind, Entry: entry})
	}
}

// Close stops the background monitor and closes every subscriber
// channel. Idempotent.
func (m *Model) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	subs := m.subs
	m.subs = map[int]chan Delta{}
	m.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.monitor != nil {
		return m.monitor.Close()
	}
	return nil
}
