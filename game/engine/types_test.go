package engine

import (
	"encoding/json"
	"testing"
)

func TestSide_Not(t *testing.T) {
	if Red.Not() != Blue {
		t.Errorf("Expected Red.Not() to be Blue, got %s", Red.Not())
	}
	if Blue.Not() != Red {
		t.Errorf("Expected Blue.Not() to be Red, got %s", Blue.Not())
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		input    string
		expected Side
		wantErr  bool
	}{
		{"Red", Red, false},
		{"blue", Blue, false},
		{" BLUE ", Blue, false},
		{"green", Red, true},
		{"", Red, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			side, err := ParseSide(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if side != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, side)
			}
		})
	}
}

func TestRank_StartingCounts(t *testing.T) {
	expected := map[Rank]int{
		Bomb: 6, Marshal: 1, General: 1, Colonel: 2, Major: 3, Captain: 4,
		Lieutenant: 4, Sergeant: 4, Miner: 5, Scout: 8, Spy: 1, Flag: 1,
	}

	total := 0
	for _, r := range Ranks() {
		if r.StartingCount() != expected[r] {
			t.Errorf("Expected %d %s, got %d", expected[r], r, r.StartingCount())
		}
		total += r.StartingCount()
	}
	if total != RosterSize {
		t.Errorf("Expected starting counts to total %d, got %d", RosterSize, total)
	}
	if Unknown.StartingCount() != 0 {
		t.Errorf("Expected Unknown to have no starting count, got %d", Unknown.StartingCount())
	}
}

func TestRank_Ordering(t *testing.T) {
	order := []Rank{Flag, Spy, Scout, Miner, Sergeant, Lieutenant, Captain, Major, Colonel, General, Marshal, Bomb}
	for i, r := range order {
		if int(r) != i {
			t.Errorf("Expected %s to have value %d, got %d", r, i, int(r))
		}
	}
}

func TestRank_Movable(t *testing.T) {
	for _, r := range Ranks() {
		expected := r != Bomb && r != Flag
		if r.Movable() != expected {
			t.Errorf("Expected %s movable=%v", r, expected)
		}
	}
}

func TestRank_Triumphs(t *testing.T) {
	t.Run("special cases", func(t *testing.T) {
		if !Miner.Triumphs(Bomb) {
			t.Error("Expected Miner to beat Bomb")
		}
		if Bomb.Triumphs(Miner) {
			t.Error("Expected Bomb not to beat Miner")
		}
		if !Spy.Triumphs(Marshal) {
			t.Error("Expected Spy to beat Marshal")
		}
		if Marshal.Triumphs(Spy) {
			t.Error("Expected Marshal not to beat Spy")
		}
	})

	t.Run("all other pairs follow numeric order", func(t *testing.T) {
		for _, a := range Ranks() {
			for _, b := range Ranks() {
				if (a == Miner && b == Bomb) || (a == Spy && b == Marshal) ||
					(a == Bomb && b == Miner) || (a == Marshal && b == Spy) {
					continue
				}
				if a.Triumphs(b) != (a > b) {
					t.Errorf("Expected %s.Triumphs(%s) == %v", a, b, a > b)
				}
			}
		}
	})

	t.Run("equal ranks never triumph", func(t *testing.T) {
		for _, r := range Ranks() {
			if r.Triumphs(r) {
				t.Errorf("Expected %s not to triumph over itself", r)
			}
		}
	})
}

func TestPiece_JSON(t *testing.T) {
	piece := NewPiece(Blue, Scout)

	data, err := json.Marshal(piece)
	if err != nil {
		t.Fatalf("Failed to marshal piece: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal piece: %v", err)
	}
	if decoded["owner"] != "Blue" {
		t.Errorf("Expected owner Blue, got %v", decoded["owner"])
	}
	if decoded["rank"] != "Scout" {
		t.Errorf("Expected rank Scout, got %v", decoded["rank"])
	}
	if decoded["id"] != piece.ID.String() {
		t.Errorf("Expected id %s, got %v", piece.ID, decoded["id"])
	}
}

func TestGameState_ReadyJSON(t *testing.T) {
	game := NewGame(Red)
	game.ready[Blue] = true

	data, err := json.Marshal(game.GetState())
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var decoded struct {
		Board      []*Piece      `json:"board"`
		ActiveSide Side          `json:"active_side"`
		Ready      map[Side]bool `json:"ready"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}
	if len(decoded.Board) != BoardSize {
		t.Errorf("Expected %d cells, got %d", BoardSize, len(decoded.Board))
	}
	if decoded.ActiveSide != Red {
		t.Errorf("Expected active side Red, got %s", decoded.ActiveSide)
	}
	if decoded.Ready[Red] || !decoded.Ready[Blue] {
		t.Errorf("Expected only Blue ready, got %v", decoded.Ready)
	}
}
