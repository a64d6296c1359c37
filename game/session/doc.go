// Package session provides the session store for Warboard.
//
// The session package implements:
//   - Thread-safe session storage keyed by UUID
//   - Seat assignment on join (primary, secondary, spectator)
//   - Random matchmaking into open games
//   - Token-authorized setup, moves and snapshots
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the store. Each service.Session holds one engine.Game plus the
// clients that joined it; every client owns a notify.Cursor.
//
// Concurrency:
//
// One RWMutex guards the whole store. Reads (snapshots, valid moves, change
// checks) share it; joins, setups and moves take it exclusively. The lock is
// never held across a publish: mutations release it first and then signal
// the broadcaster, so a slow reader can never stall a writer.
//
// Usage:
//
//	manager := session.NewManager(notify.NewBroadcaster(notify.DefaultCapacity))
//
//	info, _ := manager.Create(engine.Red, false)
//	red, _ := manager.Join(info.ID)
//	blue, _ := manager.Join(info.ID)
//
//	_ = manager.SubmitSetup(info.ID, red.AccessToken, engine.DefaultRoster())
//	_ = manager.SubmitSetup(info.ID, blue.AccessToken, engine.DefaultRoster())
//
//	changed, _ := manager.WaitForChange(info.ID, blue.AccessToken)
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// Removing a session unsubscribes every cursor its clients held.
package session
