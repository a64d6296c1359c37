package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// place puts a new piece on the board and returns it
func place(t *testing.T, b *Board, x, y int, owner Side, rank Rank) *Piece {
	t.Helper()
	p := NewPiece(owner, rank)
	if err := b.Set(x, y, p); err != nil {
		t.Fatalf("Failed to place %s at (%d,%d): %v", rank, x, y, err)
	}
	return p
}

func TestEvaluateMove_PreconditionOrder(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, b *Board)
		from, to Position
		expected error
	}{
		{
			name:     "no piece at source",
			setup:    func(t *testing.T, b *Board) {},
			from:     Position{5, 5},
			to:       Position{5, 6},
			expected: ErrPieceNotFound,
		},
		{
			name:     "source out of bounds",
			setup:    func(t *testing.T, b *Board) {},
			from:     Position{-1, 0},
			to:       Position{0, 0},
			expected: ErrPieceNotFound,
		},
		{
			name:     "bomb is immovable",
			setup:    func(t *testing.T, b *Board) { place(t, b, 1, 1, Red, Bomb) },
			from:     Position{1, 1},
			to:       Position{1, 2},
			expected: ErrImmovable,
		},
		{
			name:     "flag is immovable even in place",
			setup:    func(t *testing.T, b *Board) { place(t, b, 1, 1, Red, Flag) },
			from:     Position{1, 1},
			to:       Position{1, 1},
			expected: ErrImmovable,
		},
		{
			name:     "same cell",
			setup:    func(t *testing.T, b *Board) { place(t, b, 5, 5, Red, Sergeant) },
			from:     Position{5, 5},
			to:       Position{5, 5},
			expected: ErrNoMoveNeeded,
		},
		{
			name:     "into water",
			setup:    func(t *testing.T, b *Board) { place(t, b, 2, 3, Red, Sergeant) },
			from:     Position{2, 3},
			to:       Position{2, 4},
			expected: ErrInvalidLocation,
		},
		{
			name:     "water checked before range",
			setup:    func(t *testing.T, b *Board) { place(t, b, 0, 0, Red, Sergeant) },
			from:     Position{0, 0},
			to:       Position{7, 5},
			expected: ErrInvalidLocation,
		},
		{
			name:     "two steps for non-scout",
			setup:    func(t *testing.T, b *Board) { place(t, b, 0, 0, Red, Sergeant) },
			from:     Position{0, 0},
			to:       Position{0, 2},
			expected: ErrOutsideOfMoveRange,
		},
		{
			name:     "off the board",
			setup:    func(t *testing.T, b *Board) { place(t, b, 0, 0, Red, Sergeant) },
			from:     Position{0, 0},
			to:       Position{-1, 0},
			expected: ErrOutsideOfMoveRange,
		},
		{
			name: "range checked before friendly fire",
			setup: func(t *testing.T, b *Board) {
				place(t, b, 0, 0, Red, Sergeant)
				place(t, b, 0, 2, Red, Sergeant)
			},
			from:     Position{0, 0},
			to:       Position{0, 2},
			expected: ErrOutsideOfMoveRange,
		},
		{
			name: "friendly fire",
			setup: func(t *testing.T, b *Board) {
				place(t, b, 0, 0, Red, Sergeant)
				place(t, b, 1, 0, Red, Scout)
			},
			from:     Position{0, 0},
			to:       Position{1, 0},
			expected: ErrFriendlyFire,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard()
			tt.setup(t, board)
			before := *board

			_, err := EvaluateMove(board, tt.from.X, tt.from.Y, tt.to.X, tt.to.Y)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
			if *board != before {
				t.Error("Expected board to be unchanged")
			}
		})
	}
}

func TestEvaluateMove_ErrorCoordinates(t *testing.T) {
	board := NewBoard()
	place(t, board, 0, 0, Red, Sergeant)

	_, err := EvaluateMove(board, 4, 4, 4, 5)
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.X != 4 || moveErr.Y != 4 {
		t.Errorf("Expected PieceNotFound(4,4), got %v", err)
	}

	_, err = EvaluateMove(board, 0, 0, 0, 3)
	if !errors.As(err, &moveErr) || moveErr.Kind != KindOutsideOfMoveRange || moveErr.X != 0 || moveErr.Y != 3 {
		t.Errorf("Expected OutsideOfMoveRange(0,3), got %v", err)
	}
}

func TestEvaluateMove_SingleStep(t *testing.T) {
	board := NewBoard()
	place(t, board, 5, 5, Red, Captain)

	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			_, err := EvaluateMove(board, 5, 5, x, y)
			legal := ManhattanDistance(Position{5, 5}, Position{x, y}) == 1 && !IsWater(x, y)
			if legal && err != nil {
				t.Errorf("Expected (%d,%d) to be legal, got %v", x, y, err)
			}
			if !legal && err == nil {
				t.Errorf("Expected (%d,%d) to be illegal", x, y)
			}
		}
	}
}

func TestEvaluateMove_EdgesDoNotWrap(t *testing.T) {
	board := NewBoard()
	place(t, board, 9, 3, Red, Captain)

	// (0,4) is linear index 40, directly after (9,3) at index 39
	if _, err := EvaluateMove(board, 9, 3, 0, 4); !errors.Is(err, ErrOutsideOfMoveRange) {
		t.Errorf("Expected no wraparound across the row edge, got %v", err)
	}
	if _, err := EvaluateMove(board, 9, 3, 10, 3); !errors.Is(err, ErrOutsideOfMoveRange) {
		t.Errorf("Expected off-board move to be out of range, got %v", err)
	}
}

func TestEvaluateMove_WaterFromEveryNeighbour(t *testing.T) {
	for _, w := range []Position{{2, 4}} {
		for _, d := range []Position{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
			from := Position{w.X + d.X, w.Y + d.Y}
			if IsWater(from.X, from.Y) {
				continue
			}
			board := NewBoard()
			place(t, board, from.X, from.Y, Blue, Marshal)
			if _, err := EvaluateMove(board, from.X, from.Y, w.X, w.Y); !errors.Is(err, ErrInvalidLocation) {
				t.Errorf("Expected InvalidLocation moving from %s to %s, got %v", from, w, err)
			}
		}
	}
}

func TestEvaluateMove_Scout(t *testing.T) {
	t.Run("slides along an empty column", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		outcome, err := EvaluateMove(board, 0, 0, 0, 9)
		if err != nil {
			t.Fatalf("Expected legal slide, got %v", err)
		}
		if outcome.Kind != Success {
			t.Errorf("Expected Success, got %s", outcome.Kind)
		}
	})

	t.Run("slides along an empty row", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 9, 7, Red, Scout)
		if _, err := EvaluateMove(board, 9, 7, 0, 7); err != nil {
			t.Errorf("Expected legal slide, got %v", err)
		}
	})

	t.Run("no diagonal slides", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		if _, err := EvaluateMove(board, 0, 0, 3, 3); !errors.Is(err, ErrOutsideOfMoveRange) {
			t.Errorf("Expected OutsideOfMoveRange, got %v", err)
		}
	})

	t.Run("cannot jump over a piece", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		place(t, board, 0, 3, Blue, Sergeant)
		if _, err := EvaluateMove(board, 0, 0, 0, 6); !errors.Is(err, ErrOutsideOfMoveRange) {
			t.Errorf("Expected OutsideOfMoveRange, got %v", err)
		}
	})

	t.Run("cannot jump over own piece", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		place(t, board, 0, 3, Red, Sergeant)
		if _, err := EvaluateMove(board, 0, 0, 0, 6); !errors.Is(err, ErrOutsideOfMoveRange) {
			t.Errorf("Expected OutsideOfMoveRange, got %v", err)
		}
	})

	t.Run("cannot cross water", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 2, 2, Red, Scout)
		if _, err := EvaluateMove(board, 2, 2, 2, 7); !errors.Is(err, ErrOutsideOfMoveRange) {
			t.Errorf("Expected OutsideOfMoveRange, got %v", err)
		}
	})

	t.Run("attacks the first occupied cell", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		place(t, board, 0, 6, Blue, Spy)
		outcome, err := EvaluateMove(board, 0, 0, 0, 6)
		if err != nil {
			t.Fatalf("Expected legal attack, got %v", err)
		}
		if outcome.Kind != AttackSuccess {
			t.Errorf("Expected AttackSuccess, got %s", outcome.Kind)
		}
	})

	t.Run("cannot attack past the first occupied cell", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		place(t, board, 0, 6, Blue, Spy)
		place(t, board, 0, 7, Blue, Spy)
		if _, err := EvaluateMove(board, 0, 0, 0, 7); !errors.Is(err, ErrOutsideOfMoveRange) {
			t.Errorf("Expected OutsideOfMoveRange, got %v", err)
		}
	})

	t.Run("scout attacking a miner loses", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		miner := place(t, board, 0, 5, Blue, Miner)
		outcome, err := EvaluateMove(board, 0, 0, 0, 5)
		if err != nil {
			t.Fatalf("Expected legal attack, got %v", err)
		}
		if outcome.Kind != AttackFailure {
			t.Errorf("Expected AttackFailure, got %s", outcome.Kind)
		}
		if len(outcome.Pieces) != 1 || outcome.Pieces[0].Rank != Scout {
			t.Errorf("Expected the scout to be the lost piece, got %v", outcome.Pieces)
		}
		if got, _ := board.Get(0, 5); got != miner {
			t.Error("Expected board to be unchanged by evaluation")
		}
	})
}

func TestEvaluateMove_Combat(t *testing.T) {
	tests := []struct {
		name     string
		attacker Rank
		defender Rank
		expected OutcomeKind
		lost     []Rank
	}{
		{"higher rank wins", Colonel, Major, AttackSuccess, []Rank{Major}},
		{"lower rank loses", Lieutenant, Captain, AttackFailure, []Rank{Lieutenant}},
		{"equal ranks trade", General, General, AttackFailureMutual, []Rank{General, General}},
		{"miner defuses bomb", Miner, Bomb, AttackSuccess, []Rank{Bomb}},
		{"marshal hits bomb", Marshal, Bomb, AttackFailure, []Rank{Marshal}},
		{"spy takes marshal", Spy, Marshal, AttackSuccess, []Rank{Marshal}},
		{"spy loses to general", Spy, General, AttackFailure, []Rank{Spy}},
		{"marshal attacking spy loses", Marshal, Spy, AttackFailure, []Rank{Marshal}},
		{"anything captures the flag", Spy, Flag, AttackSuccess, []Rank{Flag}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard()
			place(t, board, 4, 6, Red, tt.attacker)
			place(t, board, 4, 5, Blue, tt.defender)

			outcome, err := EvaluateMove(board, 4, 6, 4, 5)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if outcome.Kind != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, outcome.Kind)
			}
			if len(outcome.Pieces) != len(tt.lost) {
				t.Fatalf("Expected %d lost pieces, got %d", len(tt.lost), len(outcome.Pieces))
			}
			for i, r := range tt.lost {
				if outcome.Pieces[i].Rank != r {
					t.Errorf("Expected lost piece %d to be %s, got %s", i, r, outcome.Pieces[i].Rank)
				}
			}
		})
	}
}

func TestEvaluateMove_MutualOrder(t *testing.T) {
	board := NewBoard()
	attacker := place(t, board, 4, 6, Red, Major)
	defender := place(t, board, 4, 5, Blue, Major)

	outcome, err := EvaluateMove(board, 4, 6, 4, 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if outcome.Pieces[0].ID != defender.ID || outcome.Pieces[1].ID != attacker.ID {
		t.Error("Expected mutual outcome to list defender then attacker")
	}
}

func TestApplyMove(t *testing.T) {
	t.Run("success relocates the piece", func(t *testing.T) {
		board := NewBoard()
		p := place(t, board, 3, 6, Red, Captain)

		outcome, err := ApplyMove(board, p.ID, 3, 7)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if outcome.Kind != Success {
			t.Errorf("Expected Success, got %s", outcome.Kind)
		}
		pos, ok := board.Find(p.ID)
		if !ok || pos != (Position{3, 7}) {
			t.Errorf("Expected piece at (3,7), got %v %v", pos, ok)
		}
		if got, _ := board.Get(3, 6); got != nil {
			t.Error("Expected source to be cleared")
		}
	})

	t.Run("attack success replaces the defender", func(t *testing.T) {
		board := NewBoard()
		p := place(t, board, 3, 6, Red, Colonel)
		def := place(t, board, 4, 6, Blue, Sergeant)

		if _, err := ApplyMove(board, p.ID, 4, 6); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if pos, ok := board.Find(p.ID); !ok || pos != (Position{4, 6}) {
			t.Errorf("Expected attacker at (4,6), got %v %v", pos, ok)
		}
		if _, ok := board.Find(def.ID); ok {
			t.Error("Expected defender to be removed")
		}
	})

	t.Run("attack failure removes the attacker only", func(t *testing.T) {
		board := NewBoard()
		p := place(t, board, 3, 6, Red, Sergeant)
		def := place(t, board, 4, 6, Blue, Colonel)

		if _, err := ApplyMove(board, p.ID, 4, 6); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, ok := board.Find(p.ID); ok {
			t.Error("Expected attacker to be removed")
		}
		if got, _ := board.Get(4, 6); got != def {
			t.Error("Expected defender to stay untouched")
		}
		if got, _ := board.Get(3, 6); got != nil {
			t.Error("Expected source to be cleared")
		}
	})

	t.Run("mutual failure clears both cells", func(t *testing.T) {
		board := NewBoard()
		p := place(t, board, 3, 6, Red, Miner)
		place(t, board, 4, 6, Blue, Miner)

		outcome, err := ApplyMove(board, p.ID, 4, 6)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if outcome.Kind != AttackFailureMutual {
			t.Errorf("Expected AttackFailureMutual, got %s", outcome.Kind)
		}
		if got, _ := board.Get(3, 6); got != nil {
			t.Error("Expected source to be cleared")
		}
		if got, _ := board.Get(4, 6); got != nil {
			t.Error("Expected destination to be cleared")
		}
	})

	t.Run("unknown piece", func(t *testing.T) {
		board := NewBoard()
		id := uuid.New()
		_, err := ApplyMove(board, id, 0, 0)
		var moveErr *MoveError
		if !errors.As(err, &moveErr) || moveErr.Kind != KindPieceDoesNotExist || moveErr.PieceID != id {
			t.Errorf("Expected PieceDoesNotExist(%s), got %v", id, err)
		}
	})

	t.Run("rejected move leaves board untouched", func(t *testing.T) {
		board := NewBoard()
		p := place(t, board, 3, 6, Red, Sergeant)
		before := *board

		if _, err := ApplyMove(board, p.ID, 3, 3); err == nil {
			t.Fatal("Expected error")
		}
		if *board != before {
			t.Error("Expected board to be unchanged")
		}
	})
}

func TestValidDestinations(t *testing.T) {
	t.Run("corner piece has two moves", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Major)
		moves := ValidDestinations(board, 0, 0)
		if len(moves) != 2 {
			t.Errorf("Expected 2 moves, got %v", moves)
		}
	})

	t.Run("scout sees whole lines", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Scout)
		moves := ValidDestinations(board, 0, 0)
		if len(moves) != 18 {
			t.Errorf("Expected 18 moves, got %d", len(moves))
		}
	})

	t.Run("bomb has none", func(t *testing.T) {
		board := NewBoard()
		place(t, board, 0, 0, Red, Bomb)
		if moves := ValidDestinations(board, 0, 0); len(moves) != 0 {
			t.Errorf("Expected no moves, got %v", moves)
		}
	})
}
