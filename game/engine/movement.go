package engine

import "github.com/google/uuid"

// OutcomeKind names the result of a legal move
type OutcomeKind string

const (
	Success             OutcomeKind = "Success"
	AttackSuccess       OutcomeKind = "AttackSuccess"
	AttackFailure       OutcomeKind = "AttackFailure"
	AttackFailureMutual OutcomeKind = "AttackFailureMutual"
)

// MoveOutcome describes a legal move. Pieces holds the captured pieces:
// the defender for AttackSuccess, the attacker for AttackFailure, and
// defender then attacker for AttackFailureMutual.
type MoveOutcome struct {
	Kind   OutcomeKind `json:"result"`
	Pieces []Piece     `json:"pieces,omitempty"`
	From   Position    `json:"from"`
	To     Position    `json:"to"`
}

// EvaluateMove checks whether the piece at (fromX,fromY) may move to
// (toX,toY) and resolves any combat. The board is not modified.
//
// Checks run in order and the first failure wins: a piece must exist at the
// source, be movable, actually go somewhere, not enter water, stay within its
// move range, and not attack a piece of its own side.
func EvaluateMove(b *Board, fromX, fromY, toX, toY int) (MoveOutcome, error) {
	from := Position{X: fromX, Y: fromY}
	to := Position{X: toX, Y: toY}

	mover := b.at(from)
	if mover == nil {
		return MoveOutcome{}, pieceNotFound(fromX, fromY)
	}
	if !mover.Rank.Movable() {
		return MoveOutcome{}, ErrImmovable
	}
	if from == to {
		return MoveOutcome{}, ErrNoMoveNeeded
	}
	if IsWater(toX, toY) {
		return MoveOutcome{}, ErrInvalidLocation
	}
	if !inMoveRange(b, mover, from, to) {
		return MoveOutcome{}, outsideOfMoveRange(toX, toY)
	}

	defender := b.at(to)
	if defender == nil {
		return MoveOutcome{Kind: Success, From: from, To: to}, nil
	}
	if defender.Owner == mover.Owner {
		return MoveOutcome{}, ErrFriendlyFire
	}

	switch {
	case mover.Rank == defender.Rank:
		return MoveOutcome{Kind: AttackFailureMutual, Pieces: []Piece{*defender, *mover}, From: from, To: to}, nil
	case mover.Rank.Triumphs(defender.Rank):
		return MoveOutcome{Kind: AttackSuccess, Pieces: []Piece{*defender}, From: from, To: to}, nil
	default:
		return MoveOutcome{Kind: AttackFailure, Pieces: []Piece{*mover}, From: from, To: to}, nil
	}
}

// inMoveRange checks range and path legality. Non-Scouts move exactly one
// cell orthogonally. Scouts slide along a row or column; every cell strictly
// between source and destination must be empty land.
func inMoveRange(b *Board, mover *Piece, from, to Position) bool {
	if !InBounds(to.X, to.Y) {
		return false
	}
	if mover.Rank != Scout {
		return ManhattanDistance(from, to) == 1
	}
	if from.X != to.X && from.Y != to.Y {
		return false
	}

	step := Position{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
	for cur := (Position{X: from.X + step.X, Y: from.Y + step.Y}); cur != to; cur = (Position{X: cur.X + step.X, Y: cur.Y + step.Y}) {
		if IsWater(cur.X, cur.Y) || b.at(cur) != nil {
			return false
		}
	}
	return true
}

// ApplyMove resolves the current position of the piece with the given ID,
// evaluates the move and, if legal, updates the board:
//   - Success, AttackSuccess: the mover takes the destination, source is cleared
//   - AttackFailure: the source is cleared, the defender stays
//   - AttackFailureMutual: both cells are cleared
func ApplyMove(b *Board, pieceID uuid.UUID, x, y int) (MoveOutcome, error) {
	from, ok := b.Find(pieceID)
	if !ok {
		return MoveOutcome{}, pieceDoesNotExist(pieceID)
	}

	outcome, err := EvaluateMove(b, from.X, from.Y, x, y)
	if err != nil {
		return MoveOutcome{}, err
	}

	src := Index(from.X, from.Y)
	dst := Index(x, y)
	switch outcome.Kind {
	case Success, AttackSuccess:
		b[dst] = b[src]
		b[src] = nil
	case AttackFailure:
		b[src] = nil
	case AttackFailureMutual:
		b[src] = nil
		b[dst] = nil
	}

	return outcome, nil
}

// ValidDestinations lists every cell the piece at (x,y) may legally move to
func ValidDestinations(b *Board, x, y int) []Position {
	var moves []Position
	for i := range b {
		to := PositionOf(i)
		if _, err := EvaluateMove(b, x, y, to.X, to.Y); err == nil {
			moves = append(moves, to)
		}
	}
	return moves
}
