package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/warboard/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string               `json:"id"`
	PrimarySide    engine.Side          `json:"primary_side"`
	ActiveSide     engine.Side          `json:"active_side"`
	VsBot          bool                 `json:"vs_bot"`
	Ready          map[engine.Side]bool `json:"ready"`
	Players        int                  `json:"players"`
	Spectators     int                  `json:"spectators"`
	OpenSeats      []engine.Side        `json:"open_seats"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
}

// ClientToken is issued once per join. A nil Side marks a spectator.
type ClientToken struct {
	AccessToken uuid.UUID    `json:"access_token"`
	Side        *engine.Side `json:"side"`
}

// JoinResult is returned by random matchmaking
type JoinResult struct {
	SessionID string       `json:"id"`
	Token     *ClientToken `json:"token"`
	Created   bool         `json:"created"`
}

// StateView is the game state as seen by one client. Ranks of pieces the
// viewer does not own are reported as Unknown.
type StateView struct {
	Board       *engine.Board        `json:"board"`
	ActiveSide  engine.Side          `json:"active_side"`
	PrimarySide engine.Side          `json:"primary_side"`
	Ready       map[engine.Side]bool `json:"ready"`
	Viewer      *engine.Side         `json:"viewer"`
	PiecesLeft  map[engine.Side]int  `json:"pieces_left"`
	Remaining   map[engine.Rank]int  `json:"remaining,omitempty"`
}

// PresetInfo provides information about a setup preset
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"` // The identifier to use when loading
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
}
