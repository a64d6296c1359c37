package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/notify"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, primary engine.Side, vsBot bool) (*SessionInfo, error)
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Joining
	Join(ctx context.Context, sessionID string) (*ClientToken, error)
	JoinRandom(ctx context.Context, side engine.Side) (*JoinResult, error)

	// Game Operations
	SubmitSetup(ctx context.Context, sessionID string, token uuid.UUID, roster []engine.Rank) error
	Move(ctx context.Context, sessionID string, token uuid.UUID, pieceID uuid.UUID, x, y int) (*engine.MoveOutcome, error)
	ValidMoves(ctx context.Context, sessionID string, token uuid.UUID, pieceID uuid.UUID) ([]engine.Position, error)

	// Game State
	GetState(ctx context.Context, sessionID string, token uuid.UUID) (*StateView, error)
	WaitForChange(ctx context.Context, sessionID string, token uuid.UUID) (bool, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*engine.SetupPreset, error)
}

// SessionManager defines session storage operations. Implementations own
// all locking; none of these calls may block on anything but the store lock.
type SessionManager interface {
	Create(primary engine.Side, vsBot bool) (*SessionInfo, error)
	Exists(id string) bool
	Info(id string) (*SessionInfo, error)
	List() []*SessionInfo
	Delete(id string) error

	Join(id string) (*ClientToken, error)
	JoinRandom(side engine.Side) (*JoinResult, error)

	Snapshot(id string, token uuid.UUID) (*engine.GameState, *engine.Side, error)
	ApplyMove(id string, token uuid.UUID, pieceID uuid.UUID, x, y int) (engine.MoveOutcome, error)
	SubmitSetup(id string, token uuid.UUID, roster []engine.Rank) error
	ValidMoves(id string, token uuid.UUID, pieceID uuid.UUID) ([]engine.Position, error)
	WaitForChange(id string, token uuid.UUID) (bool, error)
}

// PresetManager handles setup preset loading
type PresetManager interface {
	LoadPreset(name string) (*engine.SetupPreset, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *engine.SetupPreset
}

// Session represents an active game session. Fields other than the access
// timestamp are guarded by the owning SessionManager's lock.
type Session struct {
	ID           string
	Game         *engine.Game
	VsBot        bool
	HasPrimary   bool
	HasSecondary bool
	Clients      map[uuid.UUID]*Client
	CreatedAt    time.Time

	lastAccessed atomic.Int64
}

// Client is a holder of an access token within one session
type Client struct {
	Token    uuid.UUID
	Side     *engine.Side
	Cursor   *notify.Cursor
	JoinedAt time.Time
}

// NewSession creates an empty session where primary moves first
func NewSession(id string, primary engine.Side, vsBot bool) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Game:      engine.NewGame(primary),
		VsBot:     vsBot,
		Clients:   make(map[uuid.UUID]*Client),
		CreatedAt: now,
	}
	s.lastAccessed.Store(now.UnixNano())
	return s
}

// Touch records an access; safe to call under a read lock
func (s *Session) Touch() {
	s.lastAccessed.Store(time.Now().UnixNano())
}

// LastAccessedAt returns the time of the latest access
func (s *Session) LastAccessedAt() time.Time {
	return time.Unix(0, s.lastAccessed.Load())
}

// Info builds a detached summary of the session
func (s *Session) Info() *SessionInfo {
	players, spectators := 0, 0
	for _, c := range s.Clients {
		if c.Side != nil {
			players++
		} else {
			spectators++
		}
	}

	return &SessionInfo{
		ID:             s.ID,
		PrimarySide:    s.Game.PrimarySide(),
		ActiveSide:     s.Game.ActiveSide(),
		VsBot:          s.VsBot,
		Ready:          map[engine.Side]bool{engine.Red: s.Game.IsReady(engine.Red), engine.Blue: s.Game.IsReady(engine.Blue)},
		Players:        players,
		Spectators:     spectators,
		OpenSeats:      s.OpenSeats(),
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt(),
	}
}

// NextSeat returns the side a new client would be assigned, or nil when it
// would become a spectator.
func (s *Session) NextSeat() *engine.Side {
	if !s.HasPrimary {
		side := s.Game.PrimarySide()
		return &side
	}
	if !s.HasSecondary && !s.VsBot {
		side := s.Game.PrimarySide().Not()
		return &side
	}
	return nil
}

// OpenSeats lists the sides still waiting for a player
func (s *Session) OpenSeats() []engine.Side {
	seats := []engine.Side{}
	if !s.HasPrimary {
		seats = append(seats, s.Game.PrimarySide())
	}
	if !s.HasSecondary && !s.VsBot {
		seats = append(seats, s.Game.PrimarySide().Not())
	}
	return seats
}
