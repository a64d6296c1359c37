package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	ErrWaterTile   = errors.New("water tiles cannot hold pieces")
)

// waterTiles are the eight impassable cells in the middle of the board
var waterTiles = [...]Position{
	{2, 4}, {3, 4}, {2, 5}, {3, 5},
	{6, 4}, {7, 4}, {6, 5}, {7, 5},
}

// Board is the 10x10 grid, linearized as x + y*10. A nil cell is empty.
type Board [BoardSize]*Piece

// NewBoard returns an empty board
func NewBoard() *Board {
	return &Board{}
}

// InBounds reports whether (x,y) lies on the board
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardWidth && y >= 0 && y < BoardHeight
}

// IsWater reports whether (x,y) is a water tile
func IsWater(x, y int) bool {
	for _, w := range waterTiles {
		if w.X == x && w.Y == y {
			return true
		}
	}
	return false
}

// WaterTiles returns the positions of all water tiles
func WaterTiles() []Position {
	tiles := make([]Position, len(waterTiles))
	copy(tiles, waterTiles[:])
	return tiles
}

// Index linearizes in-bounds coordinates
func Index(x, y int) int {
	return x + y*BoardWidth
}

// PositionOf converts a linear index back to coordinates
func PositionOf(index int) Position {
	return Position{X: index % BoardWidth, Y: index / BoardWidth}
}

// Get returns the piece at (x,y), or nil when the cell is empty
func (b *Board) Get(x, y int) (*Piece, error) {
	if !InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	return b[Index(x, y)], nil
}

// Set places p at (x,y); a nil p clears the cell
func (b *Board) Set(x, y int, p *Piece) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	if p != nil && IsWater(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrWaterTile, x, y)
	}
	b[Index(x, y)] = p
	return nil
}

// at is Get without the bounds error, for callers that already checked
func (b *Board) at(pos Position) *Piece {
	if !InBounds(pos.X, pos.Y) {
		return nil
	}
	return b[Index(pos.X, pos.Y)]
}

// Find locates a piece by ID with a linear scan
func (b *Board) Find(id uuid.UUID) (Position, bool) {
	for i, p := range b {
		if p != nil && p.ID == id {
			return PositionOf(i), true
		}
	}
	return Position{}, false
}

// PieceByID returns the piece with the given ID, or nil
func (b *Board) PieceByID(id uuid.UUID) *Piece {
	pos, ok := b.Find(id)
	if !ok {
		return nil
	}
	return b.at(pos)
}

// CountByRank tallies every piece on the board by rank
func (b *Board) CountByRank() map[Rank]int {
	counts := make(map[Rank]int)
	for _, p := range b {
		if p != nil {
			counts[p.Rank]++
		}
	}
	return counts
}

// Remaining reports, per playable rank, how many more pieces side may place
// before reaching the starting count.
func (b *Board) Remaining(side Side) map[Rank]int {
	remaining := make(map[Rank]int, Bomb+1)
	for _, r := range Ranks() {
		remaining[r] = r.StartingCount()
	}
	for _, p := range b {
		if p != nil && p.Owner == side && p.Rank.Valid() {
			remaining[p.Rank]--
		}
	}
	return remaining
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	clone := &Board{}
	for i, p := range b {
		if p != nil {
			cp := *p
			clone[i] = &cp
		}
	}
	return clone
}

// Masked returns a copy of the board where every piece not owned by viewer
// has its rank replaced by Unknown. A nil viewer hides all ranks.
func (b *Board) Masked(viewer *Side) *Board {
	masked := b.Clone()
	for _, p := range masked {
		if p == nil {
			continue
		}
		if viewer == nil || p.Owner != *viewer {
			p.Rank = Unknown
		}
	}
	return masked
}
