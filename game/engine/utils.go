package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// CountSide counts the pieces a side still has on the board
func CountSide(b *Board, side Side) int {
	count := 0
	for _, p := range b {
		if p != nil && p.Owner == side {
			count++
		}
	}
	return count
}

// HasMovablePieces reports whether side has at least one piece that is not
// a Bomb or Flag.
func HasMovablePieces(b *Board, side Side) bool {
	for _, p := range b {
		if p != nil && p.Owner == side && p.Rank.Movable() {
			return true
		}
	}
	return false
}
