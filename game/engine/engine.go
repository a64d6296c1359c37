package engine

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAlreadyReady = errors.New("side has already submitted its setup")
	ErrNotReady     = errors.New("both sides must finish setup before moving")
	ErrNotYourTurn  = errors.New("it is not this side's turn")
)

// Engine provides the main interface for a single match
type Engine interface {
	// Game state
	GetState() *GameState
	ActiveSide() Side
	PrimarySide() Side
	IsReady(side Side) bool
	BothReady() bool

	// Setup and movement
	Setup(side Side, roster []Rank) error
	Move(side Side, pieceID uuid.UUID, x, y int) (MoveOutcome, error)
	ValidMoves(side Side, pieceID uuid.UUID) ([]Position, error)
}

// Game implements Engine. It is not safe for concurrent use; callers
// serialize access.
type Game struct {
	board       *Board
	primarySide Side
	activeSide  Side
	ready       [2]bool
}

// NewGame creates a match with an empty board where primary moves first
func NewGame(primary Side) *Game {
	return &Game{
		board:       NewBoard(),
		primarySide: primary,
		activeSide:  primary,
	}
}

// Board exposes the live board
func (g *Game) Board() *Board {
	return g.board
}

// GetState returns a deep copy of the match state
func (g *Game) GetState() *GameState {
	return &GameState{
		Board:       g.board.Clone(),
		ActiveSide:  g.activeSide,
		PrimarySide: g.primarySide,
		Ready: map[Side]bool{
			Red:  g.ready[Red],
			Blue: g.ready[Blue],
		},
	}
}

// ActiveSide returns the side allowed to move next
func (g *Game) ActiveSide() Side {
	return g.activeSide
}

// PrimarySide returns the side owning rows 6-9
func (g *Game) PrimarySide() Side {
	return g.primarySide
}

// IsReady reports whether side has submitted a valid setup
func (g *Game) IsReady(side Side) bool {
	return g.ready[side]
}

// BothReady reports whether play has started
func (g *Game) BothReady() bool {
	return g.ready[Red] && g.ready[Blue]
}

// Setup places side's roster in its home rows and marks it ready
func (g *Game) Setup(side Side, roster []Rank) error {
	if g.ready[side] {
		return ErrAlreadyReady
	}
	if err := PlaceRoster(g.board, side, side == g.primarySide, roster); err != nil {
		return err
	}
	g.ready[side] = true
	return nil
}

// Move moves one of side's pieces. The piece must belong to side; otherwise
// it is reported as not existing. On every legal move the turn passes to
// the other side.
func (g *Game) Move(side Side, pieceID uuid.UUID, x, y int) (MoveOutcome, error) {
	if !g.BothReady() {
		return MoveOutcome{}, ErrNotReady
	}
	if p := g.board.PieceByID(pieceID); p == nil || p.Owner != side {
		return MoveOutcome{}, pieceDoesNotExist(pieceID)
	}
	if side != g.activeSide {
		return MoveOutcome{}, ErrNotYourTurn
	}

	outcome, err := ApplyMove(g.board, pieceID, x, y)
	if err != nil {
		return MoveOutcome{}, err
	}

	g.activeSide = g.activeSide.Not()
	return outcome, nil
}

// ValidMoves lists legal destinations for one of side's pieces
func (g *Game) ValidMoves(side Side, pieceID uuid.UUID) ([]Position, error) {
	pos, ok := g.board.Find(pieceID)
	if !ok || g.board.at(pos).Owner != side {
		return nil, pieceDoesNotExist(pieceID)
	}
	return ValidDestinations(g.board, pos.X, pos.Y), nil
}
