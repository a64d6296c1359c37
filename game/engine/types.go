package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	BoardWidth  = 10
	BoardHeight = 10
	BoardSize   = BoardWidth * BoardHeight

	// RosterSize is the number of pieces each side places during setup.
	RosterSize = 40
)

// Side identifies a team and the owner of the current turn
type Side int

const (
	Red Side = iota
	Blue
)

// Not returns the opposing side
func (s Side) Not() Side {
	if s == Red {
		return Blue
	}
	return Red
}

func (s Side) String() string {
	switch s {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// ParseSide parses a side name, ignoring case
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	}
	return Red, fmt.Errorf("invalid side %q", name)
}

func (s Side) MarshalText() ([]byte, error) {
	if s != Red && s != Blue {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Rank is a piece's combat strength. Ranks are totally ordered by value,
// with Unknown used only to hide a piece from a viewer.
type Rank int

const (
	Flag Rank = iota
	Spy
	Scout
	Miner
	Sergeant
	Lieutenant
	Captain
	Major
	Colonel
	General
	Marshal
	Bomb
	Unknown
)

var rankNames = [...]string{
	Flag:       "Flag",
	Spy:        "Spy",
	Scout:      "Scout",
	Miner:      "Miner",
	Sergeant:   "Sergeant",
	Lieutenant: "Lieutenant",
	Captain:    "Captain",
	Major:      "Major",
	Colonel:    "Colonel",
	General:    "General",
	Marshal:    "Marshal",
	Bomb:       "Bomb",
	Unknown:    "Unknown",
}

var startingCounts = [...]int{
	Flag:       1,
	Spy:        1,
	Scout:      8,
	Miner:      5,
	Sergeant:   4,
	Lieutenant: 4,
	Captain:    4,
	Major:      3,
	Colonel:    2,
	General:    1,
	Marshal:    1,
	Bomb:       6,
	Unknown:    0,
}

// Ranks returns the twelve playable ranks in ascending order
func Ranks() []Rank {
	ranks := make([]Rank, 0, Bomb+1)
	for r := Flag; r <= Bomb; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// Valid reports whether r is a playable rank
func (r Rank) Valid() bool {
	return r >= Flag && r <= Bomb
}

func (r Rank) String() string {
	if r >= Flag && r <= Unknown {
		return rankNames[r]
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// StartingCount is how many pieces of this rank a side must place
func (r Rank) StartingCount() int {
	if r >= Flag && r <= Unknown {
		return startingCounts[r]
	}
	return 0
}

// Movable reports whether pieces of this rank may ever leave their cell
func (r Rank) Movable() bool {
	return r != Bomb && r != Flag && r != Unknown
}

// Triumphs reports whether an attacker of rank r defeats a defender.
// Equal ranks are a mutual loss and never triumph.
func (r Rank) Triumphs(defender Rank) bool {
	switch {
	case r == Miner && defender == Bomb:
		return true
	case r == Spy && defender == Marshal:
		return true
	case r == Bomb && defender == Miner, r == Marshal && defender == Spy:
		return false
	}
	return r > defender
}

// ParseRank parses a rank name, ignoring case
func ParseRank(name string) (Rank, error) {
	name = strings.TrimSpace(name)
	for r := Flag; r <= Unknown; r++ {
		if strings.EqualFold(rankNames[r], name) {
			return r, nil
		}
	}
	return Unknown, fmt.Errorf("invalid rank %q", name)
}

func (r Rank) MarshalText() ([]byte, error) {
	if r < Flag || r > Unknown {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(rankNames[r]), nil
}

func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Piece is a single game piece. Its ID stays the same across moves.
type Piece struct {
	ID    uuid.UUID `json:"id"`
	Owner Side      `json:"owner"`
	Rank  Rank      `json:"rank"`
}

// NewPiece creates a piece with a fresh random ID
func NewPiece(owner Side, rank Rank) *Piece {
	return &Piece{
		ID:    uuid.New(),
		Owner: owner,
		Rank:  rank,
	}
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// GameState is a point-in-time copy of a match
type GameState struct {
	Board       *Board        `json:"board"`
	ActiveSide  Side          `json:"active_side"`
	PrimarySide Side          `json:"primary_side"`
	Ready       map[Side]bool `json:"ready"`
}
