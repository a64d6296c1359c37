// Package service provides the business logic layer for Warboard.
//
// The service package implements:
//   - Session creation, joining and matchmaking
//   - Setup submission and move processing
//   - Per-client views of the board with hidden enemy ranks
//   - Change polling for clients that cannot hold a socket open
//   - Setup preset lookup
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager is the concurrency-safe session store.
// PresetManager loads named setup rosters.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the session store. The store owns all locking; the service adds
// context handling, error classification and logging on top of it.
//
// Usage:
//
//	broadcaster := notify.NewBroadcaster(notify.DefaultCapacity)
//	sessions := session.NewManager(broadcaster)
//	presets, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessions, presets, logger)
//
//	info, err := gameService.CreateSession(ctx, engine.Red, false)
//	token, err := gameService.Join(ctx, info.ID)
//	err = gameService.SubmitSetup(ctx, info.ID, token.AccessToken, engine.DefaultRoster())
//
// Access Tokens:
//
// Joining a session issues an opaque access token. The token is the only
// basis for authorizing setups and moves; a caller never states its side.
// Tokens without a side are spectators.
package service
