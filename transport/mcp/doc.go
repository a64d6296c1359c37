// Package mcp exposes Warboard to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes one REST request
// against a running API server, and the JSON answer is rendered as text.
// Agents hold their own access tokens and pass them on every game call.
//
// MCP Tools:
//   - create_game, list_games, get_game, delete_game, game_exists
//   - join_game: issue an access token for a seat or as spectator
//   - join_random: matchmaking on a chosen side
//   - submit_setup: place 40 pieces or a named preset
//   - list_presets, get_preset
//   - game_state: the masked board drawn as a grid plus the caller's pieces
//   - game_state_changed: change polling
//   - valid_moves, move_piece
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the /mcp route of the main server forwards JSON-RPC bodies
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
