package engine

import (
	"errors"
	"fmt"
)

var ErrIncorrectPieceCount = errors.New("incorrect piece count")

// ValidateRoster checks that a setup roster holds exactly RosterSize pieces
// and that every rank appears exactly its starting count.
func ValidateRoster(roster []Rank) error {
	if len(roster) != RosterSize {
		return fmt.Errorf("%w: expected %d pieces, got %d", ErrIncorrectPieceCount, RosterSize, len(roster))
	}

	counts := make(map[Rank]int, Bomb+1)
	for _, r := range roster {
		if !r.Valid() {
			return fmt.Errorf("%w: %s is not a playable rank", ErrIncorrectPieceCount, r)
		}
		counts[r]++
	}

	for _, r := range Ranks() {
		if counts[r] != r.StartingCount() {
			return fmt.Errorf("%w: expected %d %s, got %d", ErrIncorrectPieceCount, r.StartingCount(), r, counts[r])
		}
	}

	return nil
}

// SetupIndex maps the i-th roster entry to its linear board index. The
// primary side fills indices 60..99 in order (rows 6-9); the other side fills
// 39..0 in reverse (rows 3-0), mirroring the layout across the board center.
func SetupIndex(primary bool, i int) int {
	if primary {
		return 60 + i
	}
	return 39 - i
}

// PlaceRoster validates roster and writes it into side's home rows, giving
// every piece a fresh ID. Cells previously holding side's pieces in those
// rows are overwritten.
func PlaceRoster(b *Board, side Side, primary bool, roster []Rank) error {
	if err := ValidateRoster(roster); err != nil {
		return err
	}

	for i, r := range roster {
		b[SetupIndex(primary, i)] = NewPiece(side, r)
	}

	return nil
}

// DefaultRoster returns a valid roster, ranks ordered from Bomb down to Flag
func DefaultRoster() []Rank {
	roster := make([]Rank, 0, RosterSize)
	for r := Bomb; r >= Flag; r-- {
		for i := 0; i < r.StartingCount(); i++ {
			roster = append(roster, r)
		}
	}
	return roster
}
