package engine

import (
	"errors"
	"testing"
)

func TestValidateRoster(t *testing.T) {
	t.Run("default roster is valid", func(t *testing.T) {
		if err := ValidateRoster(DefaultRoster()); err != nil {
			t.Errorf("Expected default roster to be valid, got %v", err)
		}
	})

	t.Run("order does not matter", func(t *testing.T) {
		roster := DefaultRoster()
		for i, j := 0, len(roster)-1; i < j; i, j = i+1, j-1 {
			roster[i], roster[j] = roster[j], roster[i]
		}
		if err := ValidateRoster(roster); err != nil {
			t.Errorf("Expected reversed roster to be valid, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func([]Rank) []Rank
	}{
		{"one bomb short", func(r []Rank) []Rank {
			// swap a bomb for an extra scout: still 40 pieces
			for i := range r {
				if r[i] == Bomb {
					r[i] = Scout
					break
				}
			}
			return r
		}},
		{"too few pieces", func(r []Rank) []Rank { return r[:39] }},
		{"too many pieces", func(r []Rank) []Rank { return append(r, Scout) }},
		{"empty roster", func(r []Rank) []Rank { return nil }},
		{"unknown rank", func(r []Rank) []Rank {
			r[0] = Unknown
			return r
		}},
		{"out of range rank", func(r []Rank) []Rank {
			r[0] = Rank(42)
			return r
		}},
		{"two flags no spy", func(r []Rank) []Rank {
			for i := range r {
				if r[i] == Spy {
					r[i] = Flag
				}
			}
			return r
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := tt.mutate(DefaultRoster())
			if err := ValidateRoster(roster); !errors.Is(err, ErrIncorrectPieceCount) {
				t.Errorf("Expected ErrIncorrectPieceCount, got %v", err)
			}
		})
	}
}

func TestSetupIndex(t *testing.T) {
	if SetupIndex(true, 0) != 60 || SetupIndex(true, 39) != 99 {
		t.Errorf("Expected primary side to fill 60..99, got %d..%d", SetupIndex(true, 0), SetupIndex(true, 39))
	}
	if SetupIndex(false, 0) != 39 || SetupIndex(false, 39) != 0 {
		t.Errorf("Expected secondary side to fill 39..0, got %d..%d", SetupIndex(false, 0), SetupIndex(false, 39))
	}

	seen := make(map[int]bool)
	for i := 0; i < RosterSize; i++ {
		for _, primary := range []bool{true, false} {
			idx := SetupIndex(primary, i)
			if seen[idx] {
				t.Fatalf("Index %d assigned twice", idx)
			}
			seen[idx] = true
			pos := PositionOf(idx)
			if IsWater(pos.X, pos.Y) {
				t.Errorf("Setup index %d lands on water", idx)
			}
		}
	}
}

func TestPlaceRoster(t *testing.T) {
	t.Run("primary side fills rows 6-9 in order", func(t *testing.T) {
		board := NewBoard()
		roster := DefaultRoster()
		if err := PlaceRoster(board, Red, true, roster); err != nil {
			t.Fatalf("Failed to place roster: %v", err)
		}
		for i, r := range roster {
			p := board[60+i]
			if p == nil || p.Rank != r || p.Owner != Red {
				t.Fatalf("Expected Red %s at index %d, got %+v", r, 60+i, p)
			}
		}
		for i := 0; i < 60; i++ {
			if board[i] != nil {
				t.Fatalf("Expected index %d to be empty", i)
			}
		}
	})

	t.Run("secondary side fills rows 3-0 mirrored", func(t *testing.T) {
		board := NewBoard()
		roster := DefaultRoster()
		if err := PlaceRoster(board, Blue, false, roster); err != nil {
			t.Fatalf("Failed to place roster: %v", err)
		}
		for i, r := range roster {
			p := board[39-i]
			if p == nil || p.Rank != r || p.Owner != Blue {
				t.Fatalf("Expected Blue %s at index %d, got %+v", r, 39-i, p)
			}
		}
	})

	t.Run("every piece gets a unique id", func(t *testing.T) {
		board := NewBoard()
		PlaceRoster(board, Red, true, DefaultRoster())
		PlaceRoster(board, Blue, false, DefaultRoster())

		ids := make(map[string]bool)
		for _, p := range board {
			if p == nil {
				continue
			}
			if ids[p.ID.String()] {
				t.Fatalf("Duplicate piece id %s", p.ID)
			}
			ids[p.ID.String()] = true
		}
		if len(ids) != 2*RosterSize {
			t.Errorf("Expected %d pieces, got %d", 2*RosterSize, len(ids))
		}
	})

	t.Run("invalid roster leaves board empty", func(t *testing.T) {
		board := NewBoard()
		if err := PlaceRoster(board, Red, true, DefaultRoster()[:10]); !errors.Is(err, ErrIncorrectPieceCount) {
			t.Errorf("Expected ErrIncorrectPieceCount, got %v", err)
		}
		if *board != (Board{}) {
			t.Error("Expected board to stay empty")
		}
	})
}
