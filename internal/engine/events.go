package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventKind string

const (
	EventReminderFired  EventKind = "reminder-fired"
	EventDueTomorrow    EventKind = "due-tomorrow"
	EventDueSoon        EventKind = "due-soon"
	EventDueNow         EventKind = "due-now"
	EventOverdue        EventKind = "overdue"
	EventOverduePenalty EventKind = "overdue-penalty"
	EventDailyAvailable EventKind = "daily-available"
	EventHabitCheck     EventKind = "habit-check"
)

// Event is a notification emitted by the scheduler. Rendering it is up to the UI.
type Event struct {
	Kind    EventKind
	Title   string
	Message string
	TaskID  string
	At      time.Time
}

// Broadcaster fans events out to subscribers without ever blocking the publisher.
// A subscriber whose buffer is full misses the event.
type Broadcaster struct {
	log *zap.Logger

	mu      sync.Mutex
	next    int
	subs    map[int]chan Event
	closed  bool
	dropped int
}

func NewBroadcaster(log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{log: log, subs: map[int]chan Event{}}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// cancel func unregisters it and closes the channel; it is safe to call twice.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

func (b *Broadcaster) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped++
			b.log.Warn("event dropped: subscriber buffer full",
				zap.Int("subscriber", id),
				zap.String("kind", string(e.Kind)),
				zap.String("task_id", e.TaskID),
			)
		}
	}
}

// Dropped returns how many deliveries were skipped because a buffer was full.
func (b *Broadcaster) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close closes every subscriber channel; later publishes are ignored.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
