package ecs

// ContactEventKind names a change in a character's contact flags.
type ContactEventKind string

const (
	ContactLanded   ContactEventKind = "landed"
	ContactAirborne ContactEventKind = "airborne"
	ContactWall     ContactEventKind = "wall"
	ContactCeiling  ContactEventKind = "ceiling"
)

// ContactEvent is emitted when a character's contact state changes.
type ContactEvent struct {
	Entity Entity
	Seq    uint64
	Kind   ContactEventKind
}

// EventQueue is a simple FIFO queue. It is output for observers only and
// is not part of any snapshot.
type EventQueue struct {
	items []ContactEvent
}

// Push adds an event.
func (q *EventQueue) Push(evt ContactEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []ContactEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Reset drops undrained events.
func (q *EventQueue) Reset() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}
