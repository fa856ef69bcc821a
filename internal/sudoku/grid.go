package sudoku

// Size is the side length of a standard board.
const Size = 9

// Grid is a square sudoku board. Zero means an empty cell.
type Grid [][]int

// NewGrid returns an empty Size x Size grid.
func NewGrid() Grid {
	g := make(Grid, Size)
	for i := range g {
		g[i] = make([]int, Size)
	}
	return g
}

// Clone returns an independent value copy of the grid. Every per-player
// working grid is seeded through this, never by sharing row slices.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g[row])
}

// Matches reports whether the grid is cell-for-cell identical to solution.
// Grids of different shapes never match.
func (g Grid) Matches(solution Grid) bool {
	if len(g) != len(solution) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(solution[i]) {
			return false
		}
		for j := range g[i] {
			if g[i][j] != solution[i][j] {
				return false
			}
		}
	}
	return len(g) > 0
}

// Clues counts the filled cells.
func (g Grid) Clues() int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
