package vfs

// EventKind is the uniform vocabulary a Monitor emits, spec §4.6.
type EventKind int

// Event kinds.
const (
	EventChanged EventKind = iota
	EventChangesDoneHint
	EventDeleted
	EventCreated
	EventAttributeChanged
	EventPreUnmount
	EventUnmounted
	EventMoved
)

func (k EventKind) String() string {
	switch k {
	case EventChangesDoneHint:
		return "ChangesDoneHint"
	case EventDeleted:
		return "Deleted"
	case EventCreated:
		return "Created"
	case EventAttributeChanged:
		return "AttributeChanged"
	case EventPreUnmount:
		return "PreUnmount"
	case EventUnmounted:
		return "Unmounted"
	case EventMoved:
		return "Moved"
	default:
		return "Changed"
	}
}

// Event is a single change notification delivered by a Monitor. Other
// is populated for EventChanged when the backend knows a companion file
// (rename-target style change) and Dst is populated for EventMoved.
type Event struct {
	Kind  EventKind
	File  URI
	Other URI
	Dst   URI
}

// MonitorChannelCapacity is the bounded channel size spec §4.6/§5
// mandates for the bridge between a foreign watch thread and consumers:
// capacity 100, drop-oldest on overflow.
const MonitorChannelCapacity = 100

// Monitor is a live subscription to a resource's change events (spec
// §3/§4.6). Dropping (Close-ing) the monitor unregisters the watch.
type Monitor interface {
	// Events returns the channel events are delivered on. It is closed
	// when the monitor is closed or the underlying watch ends.
	Events() <-chan Event
	// Close unregisters the watch. Idempotent.
	Close() error
}

// EventRing is a small helper implementing the bounded,
// drop-oldest-on-overflow delivery policy spec §4.6/§5 requires for
// bridging a foreign-thread callback into a channel. Construct one per
// Monitor; call Push from the foreign callback and expose Out() as the
// public channel.
type EventRing struct {
	out     chan Event
	dropped func(Event)
}

// NewEventRing creates a ring with the standard MonitorChannelCapacity.
// onDrop, if non-nil, is invoked synchronously from Push, on the
// pushing goroutine, with the event that was evicted to make room, for
// diagnostics.
func NewEventRing(onDrop func(Event)) *EventRing {
	return &EventRing{
		out:     make(chan Event, MonitorChannelCapacity),
		dropped: onDrop,
	}
}

// Push delivers an event, dropping the oldest buffered event if the
// channel is full. Never blocks: correctness is preserved because
// consumers must rescan on any gap (spec §4.6).
func (r *EventRing) Push(ev Event) {
	for {
		select {
		case r.out <- ev:
			return
		default:
		}
		select {
		case old := <-r.out:
			if r.dropped != nil {
				r.dropped(old)
			}
		default:
			// Raced with a concurrent receive; retry the send.
		}
	}
}

// Out returns the channel to expose as Monitor.Events().
func (r *EventRing) Out() chan Event { return r.out }

// Close closes the underlying channel. Must only be called once, after
// the producer side has stopped pushing.
func (r *EventRing) Close() { close(r.out) }
