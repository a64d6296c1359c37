// Package api provides HTTP REST API handlers for Warboard.
//
// The api package implements:
//   - Game creation, lookup, listing and deletion
//   - Joining by id and random matchmaking
//   - Token-authorized state reads, setups and moves
//   - Change polling and WebSocket upgrade
//   - Setup preset listing
//
// Endpoints:
//
// Session Management:
//   - POST /api/create_game - {primary_side, vs_bot} creates a game, 201 with its summary
//   - GET /api/games - list games (?open=true for games with a free seat)
//   - GET /api/{id} - game summary
//   - DELETE /api/{id} - remove a game
//   - GET /api/{id}/game_exists - true or false
//   - GET /api/{id}/join - issue {access_token, side}; side is null for spectators
//   - GET /api/join_random/{side} - join or create a game on the given side
//
// Game Operations:
//   - GET /api/{id}/game_state?token= - board with enemy ranks hidden
//   - GET /api/{id}/game_state_changed?token= - true when the game changed since the last check
//   - POST /api/{id}/init_setup - {access_token, pieces[40]} or {access_token, preset}
//   - PUT /api/{id}/move_piece - {access_token, piece_id, x, y}
//   - GET /api/{id}/valid_moves?token=&piece= - legal destinations
//
// Presets:
//   - GET /api/presets - list presets
//   - GET /api/presets/{name} - a preset with its roster
//
// Move Results:
//
// A legal move answers 200 with the outcome:
//
//	{"result": "AttackSuccess", "pieces": [{"id": "...", "owner": "Blue", "rank": "Scout"}], ...}
//
// A rejected move answers 400 with the rejection and its coordinates or id:
//
//	{"error": "OutsideOfMoveRange", "x": 4, "y": 4}
//
// Error Handling:
//
// Other failures are returned as {"error": "<code>"} with GameDoesNotExist
// (404), InvalidAccess (403), IncorrectPieceCount (400), NotYourTurn,
// NotReady and UnknownFail (409).
package api
