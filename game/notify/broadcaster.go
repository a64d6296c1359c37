package notify

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is how many undrained events a cursor keeps
const DefaultCapacity = 16

// Broadcaster fans session change events out to every subscribed cursor.
// Delivery is best effort: a cursor that falls behind loses its oldest
// events, and Publish never blocks.
type Broadcaster struct {
	mu        sync.Mutex
	capacity  int
	cursors   map[*Cursor]struct{}
	listeners []func(sessionID string)
	dropped   atomic.Uint64
}

// Cursor is one client's independent view of the event stream
type Cursor struct {
	events chan string
}

// NewBroadcaster creates a broadcaster whose cursors buffer up to capacity
// events. A capacity below 1 uses DefaultCapacity.
func NewBroadcaster(capacity int) *Broadcaster {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Broadcaster{
		capacity: capacity,
		cursors:  make(map[*Cursor]struct{}),
	}
}

// Subscribe registers a new cursor. It only sees events published after
// this call.
func (b *Broadcaster) Subscribe() *Cursor {
	c := &Cursor{events: make(chan string, b.capacity)}

	b.mu.Lock()
	b.cursors[c] = struct{}{}
	b.mu.Unlock()

	return c
}

// Unsubscribe stops delivering events to c
func (b *Broadcaster) Unsubscribe(c *Cursor) {
	if c == nil {
		return
	}
	b.mu.Lock()
	delete(b.cursors, c)
	b.mu.Unlock()
}

// OnPublish registers fn to be called, outside the broadcaster's lock, for
// every published event.
func (b *Broadcaster) OnPublish(fn func(sessionID string)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Publish signals that sessionID changed
func (b *Broadcaster) Publish(sessionID string) {
	b.mu.Lock()
	for c := range b.cursors {
		if !c.offer(sessionID) {
			b.dropped.Add(1)
		}
	}
	listeners := make([]func(string), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(sessionID)
	}
}

// Subscribers returns the number of registered cursors
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cursors)
}

// Dropped returns how many events were discarded because a cursor was full
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// offer queues an event, evicting the oldest one when the buffer is full.
// It reports false when an event was evicted. Only Publish sends, under the
// broadcaster lock, so the retry after eviction cannot block.
func (c *Cursor) offer(sessionID string) bool {
	select {
	case c.events <- sessionID:
		return true
	default:
	}

	select {
	case <-c.events:
	default:
	}

	select {
	case c.events <- sessionID:
	default:
	}
	return false
}

// Changed drains every pending event and reports whether any of them was
// for sessionID. It never blocks.
func (c *Cursor) Changed(sessionID string) bool {
	changed := false
	for {
		select {
		case id := <-c.events:
			if id == sessionID {
				changed = true
			}
		default:
			return changed
		}
	}
}

// Pending returns the number of undrained events
func (c *Cursor) Pending() int {
	return len(c.events)
}
