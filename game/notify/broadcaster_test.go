package notify

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster(0)
	if b.capacity != DefaultCapacity {
		t.Errorf("Expected default capacity %d, got %d", DefaultCapacity, b.capacity)
	}
	if b.Subscribers() != 0 {
		t.Errorf("Expected no subscribers, got %d", b.Subscribers())
	}
}

func TestCursor_Changed(t *testing.T) {
	b := NewBroadcaster(4)
	c := b.Subscribe()

	if c.Changed("a") {
		t.Error("Expected no change before any publish")
	}

	b.Publish("b")
	b.Publish("a")
	b.Publish("b")

	if !c.Changed("a") {
		t.Error("Expected change for session a")
	}
	if c.Pending() != 0 {
		t.Errorf("Expected Changed to drain all events, %d left", c.Pending())
	}
	if c.Changed("a") {
		t.Error("Expected no change after draining")
	}
}

func TestCursor_OtherSessionsDrained(t *testing.T) {
	b := NewBroadcaster(4)
	c := b.Subscribe()

	b.Publish("b")
	if c.Changed("a") {
		t.Error("Expected events for other sessions not to match")
	}
	b.Publish("b")
	if !c.Changed("b") {
		t.Error("Expected a fresh event for b after draining")
	}
}

func TestCursor_IndependentCursors(t *testing.T) {
	b := NewBroadcaster(4)
	first := b.Subscribe()
	second := b.Subscribe()

	b.Publish("a")

	if !first.Changed("a") {
		t.Error("Expected first cursor to see the event")
	}
	if !second.Changed("a") {
		t.Error("Expected second cursor to see the event independently")
	}
}

func TestCursor_SubscribeSeesOnlyLaterEvents(t *testing.T) {
	b := NewBroadcaster(4)
	b.Publish("a")

	c := b.Subscribe()
	if c.Changed("a") {
		t.Error("Expected a new cursor not to see earlier events")
	}
}

func TestBroadcaster_OverflowDropsOldest(t *testing.T) {
	b := NewBroadcaster(2)
	c := b.Subscribe()

	b.Publish("old")
	b.Publish("mid")
	b.Publish("new")

	if c.Pending() != 2 {
		t.Fatalf("Expected buffer capped at 2, got %d", c.Pending())
	}
	if b.Dropped() != 1 {
		t.Errorf("Expected 1 dropped event, got %d", b.Dropped())
	}
	if c.Changed("old") {
		t.Error("Expected the oldest event to be dropped")
	}

	b.Publish("old")
	b.Publish("mid")
	b.Publish("new")
	if !c.Changed("new") {
		t.Error("Expected the newest event to survive overflow")
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(2)
	c := b.Subscribe()
	b.Unsubscribe(c)
	b.Unsubscribe(nil)

	b.Publish("a")
	if c.Changed("a") {
		t.Error("Expected unsubscribed cursor not to receive events")
	}
	if b.Subscribers() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", b.Subscribers())
	}
}

func TestBroadcaster_OnPublish(t *testing.T) {
	b := NewBroadcaster(2)

	var got []string
	b.OnPublish(func(id string) { got = append(got, id) })

	b.Publish("x")
	b.Publish("y")

	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Expected listener to see [x y], got %v", got)
	}
}

func TestBroadcaster_ConcurrentPublishNeverBlocks(t *testing.T) {
	b := NewBroadcaster(1)
	cursors := make([]*Cursor, 10)
	for i := range cursors {
		cursors[i] = b.Subscribe()
	}

	var seen atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Publish("s")
			}
		}()
	}
	for _, c := range cursors {
		wg.Add(1)
		go func(c *Cursor) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if c.Changed("s") {
					seen.Add(1)
				}
			}
		}(c)
	}
	wg.Wait()

	for _, c := range cursors {
		if c.Pending() > 1 {
			t.Errorf("Expected at most 1 pending event, got %d", c.Pending())
		}
	}
}
