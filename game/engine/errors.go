package engine

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MoveErrorKind names why a move was rejected
type MoveErrorKind string

const (
	KindPieceNotFound      MoveErrorKind = "PieceNotFound"
	KindImmovable          MoveErrorKind = "Immovable"
	KindNoMoveNeeded       MoveErrorKind = "NoMoveNeeded"
	KindInvalidLocation    MoveErrorKind = "InvalidLocation"
	KindOutsideOfMoveRange MoveErrorKind = "OutsideOfMoveRange"
	KindFriendlyFire       MoveErrorKind = "FriendlyFire"
	KindPieceDoesNotExist  MoveErrorKind = "PieceDoesNotExist"
)

// MoveError is a rejected move. Rejections never mutate the board.
type MoveError struct {
	Kind    MoveErrorKind
	X, Y    int
	PieceID uuid.UUID
}

// Sentinels for errors.Is; only Kind is compared.
var (
	ErrPieceNotFound      = &MoveError{Kind: KindPieceNotFound}
	ErrImmovable          = &MoveError{Kind: KindImmovable}
	ErrNoMoveNeeded       = &MoveError{Kind: KindNoMoveNeeded}
	ErrInvalidLocation    = &MoveError{Kind: KindInvalidLocation}
	ErrOutsideOfMoveRange = &MoveError{Kind: KindOutsideOfMoveRange}
	ErrFriendlyFire       = &MoveError{Kind: KindFriendlyFire}
	ErrPieceDoesNotExist  = &MoveError{Kind: KindPieceDoesNotExist}
)

func (e *MoveError) Error() string {
	switch e.Kind {
	case KindPieceNotFound:
		return fmt.Sprintf("no piece at (%d,%d)", e.X, e.Y)
	case KindOutsideOfMoveRange:
		return fmt.Sprintf("(%d,%d) is outside of move range", e.X, e.Y)
	case KindPieceDoesNotExist:
		return fmt.Sprintf("piece %s does not exist", e.PieceID)
	case KindImmovable:
		return "piece cannot move"
	case KindNoMoveNeeded:
		return "piece is already there"
	case KindInvalidLocation:
		return "destination is not a valid location"
	case KindFriendlyFire:
		return "cannot attack own piece"
	}
	return string(e.Kind)
}

func (e *MoveError) Is(target error) bool {
	t, ok := target.(*MoveError)
	return ok && t.Kind == e.Kind
}

// MarshalJSON emits the kind together with the fields that kind carries
func (e *MoveError) MarshalJSON() ([]byte, error) {
	out := map[string]any{"error": e.Kind}
	switch e.Kind {
	case KindPieceNotFound, KindOutsideOfMoveRange:
		out["x"] = e.X
		out["y"] = e.Y
	case KindPieceDoesNotExist:
		out["piece_id"] = e.PieceID
	}
	return json.Marshal(out)
}

func pieceNotFound(x, y int) *MoveError {
	return &MoveError{Kind: KindPieceNotFound, X: x, Y: y}
}

func outsideOfMoveRange(x, y int) *MoveError {
	return &MoveError{Kind: KindOutsideOfMoveRange, X: x, Y: y}
}

func pieceDoesNotExist(id uuid.UUID) *MoveError {
	return &MoveError{Kind: KindPieceDoesNotExist, PieceID: id}
}
