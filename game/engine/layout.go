package engine

// Offsets from a cell center, in board pixels.
var (
	// pairOffsets[0] is the mover, pairOffsets[1] the piece already there.
	pairOffsets = [2]Point{
		{X: cellSize/2 - 2, Y: -1},
		{X: -(cellSize/2 - 3), Y: -2},
	}

	// cornerOffsets is indexed by player: even players sit right, odd
	// players left; players 0 and 1 sit on the lower edge.
	cornerOffsets = [PlayerCount]Point{
		{X: cornerInset, Y: cornerInset - 2},
		{X: -cornerInset, Y: cornerInset - 2},
		{X: cornerInset, Y: -cornerInset - 2},
		{X: -cornerInset, Y: -cornerInset - 2},
	}
)

const cornerInset = float64(cellSize/2) * (1 / 1.2)

// Layout recomputes piece locations after mover lands on its position.
// Only players with a lower index count as already occupying the space.
// Pieces not involved keep their current location, including a piece left
// alone on a space: it stays offset until it moves itself.
func Layout(positions [PlayerCount]int, mover int, current [PlayerCount]Point) [PlayerCount]Point {
	out := current
	if mover < 0 || mover >= PlayerCount {
		return out
	}

	pos := positions[mover]
	center := CellCenter(pos)

	count := 1
	predecessor := -1
	for i := 0; i < mover; i++ {
		if positions[i] == pos {
			count++
			predecessor = i
		}
	}

	switch {
	case count == 1:
		out[mover] = center
	case count == 2:
		out[mover] = center.Add(pairOffsets[0])
		out[predecessor] = center.Add(pairOffsets[1])
	default:
		for i := range positions {
			if positions[i] == pos {
				out[i] = center.Add(cornerOffsets[i])
			}
		}
	}
	return out
}

// DefaultLayout places every piece in its corner of its cell, as at the
// start of a game.
func DefaultLayout(positions [PlayerCount]int) [PlayerCount]Point {
	var out [PlayerCount]Point
	for i, pos := range positions {
		out[i] = CellCenter(pos).Add(cornerOffsets[i])
	}
	return out
}
