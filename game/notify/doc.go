// Package notify provides best-effort change notification for game sessions.
//
// A single Broadcaster is shared by the whole process. Every client gets its
// own Cursor when it joins a session; mutations publish the session ID and
// clients poll Cursor.Changed to learn whether their session moved on.
//
// Delivery Guarantees:
//
// None. Each cursor buffers a bounded number of events and drops the oldest
// once full. A client must re-fetch the full game state whenever Changed
// reports true and must also re-fetch on a timer, so a lost event can delay
// an update but never leave a client permanently stale.
//
// Usage:
//
//	b := notify.NewBroadcaster(notify.DefaultCapacity)
//	cursor := b.Subscribe()
//
//	b.Publish("4f1c...")
//	if cursor.Changed("4f1c...") {
//		// fetch state
//	}
package notify
