// Package websocket provides WebSocket push for Warboard.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - A state_changed signal whenever a session is mutated
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each connection has a read pump and a write pump;
// the hub's Run loop owns registration and fan-out.
//
// Message Protocol:
//
// Only the server speaks. Every message is
//
//	{"session_id": "...", "event": "state_changed"}
//
// and carries no board: views differ per access token, so clients re-fetch
// game_state with their own token when signalled.
//
// Delivery:
//
// Push is best-effort. NotifyChanged never blocks the caller; a full hub
// queue drops the event and a connection that cannot keep up is closed.
// Clients keep polling game_state_changed on an interval regardless.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	broadcaster.OnPublish(hub.NotifyChanged)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
