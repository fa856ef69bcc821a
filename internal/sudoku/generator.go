package sudoku

import "math/rand"

// GivensFor maps a difficulty name to the target number of starting clues.
func GivensFor(difficulty string) int {
	switch difficulty {
	case "Easy":
		return 40
	case "Medium":
		return 34
	case "Hard":
		return 28
	case "Expert":
		return 24
	default:
		return 34
	}
}

// Generate builds a puzzle with the given number of clues and its full
// solution. Clues are carved from a random complete board one cell at a
// time; a removal that would allow a second solution is reverted, so the
// returned puzzle always has exactly one solution. Carving may stop above
// the target when no further cell can be removed safely.
func Generate(rng *rand.Rand, givens int) (puzzle, solution Grid) {
	solution = NewGrid()
	fillRandom(rng, solution)

	puzzle = solution.Clone()
	positions := rng.Perm(Size * Size)
	for _, pos := range positions {
		if puzzle.Clues() <= givens {
			break
		}
		r, c := pos/Size, pos%Size
		old := puzzle[r][c]
		puzzle[r][c] = 0
		if countSolutions(puzzle.Clone(), 2) != 1 {
			puzzle[r][c] = old
		}
	}
	return puzzle, solution
}

// fillRandom completes an empty grid into a full valid board by randomized
// backtracking.
func fillRandom(rng *rand.Rand, g Grid) bool {
	var dfs func(r, c int) bool
	dfs = func(r, c int) bool {
		if r == Size {
			return true
		}
		nr, nc := r, c+1
		if nc == Size {
			nr, nc = r+1, 0
		}
		for _, v := range rng.Perm(Size) {
			v++
			if allowed(g, r, c, v) {
				g[r][c] = v
				if dfs(nr, nc) {
					return true
				}
				g[r][c] = 0
			}
		}
		return false
	}
	return dfs(0, 0)
}

// countSolutions counts completions of g by backtracking, giving up once
// limit solutions are found. The grid is scribbled on; pass a clone.
func countSolutions(g Grid, limit int) int {
	found := 0
	var dfs func(r, c int)
	dfs = func(r, c int) {
		if found >= limit {
			return
		}
		if r == Size {
			found++
			return
		}
		nr, nc := r, c+1
		if nc == Size {
			nr, nc = r+1, 0
		}
		if g[r][c] != 0 {
			dfs(nr, nc)
			return
		}
		for v := 1; v <= Size; v++ {
			if allowed(g, r, c, v) {
				g[r][c] = v
				dfs(nr, nc)
				g[r][c] = 0
			}
		}
	}
	dfs(0, 0)
	return found
}

// allowed checks the row, column and box constraints for placing v at (r, c).
func allowed(g Grid, r, c, v int) bool {
	for i := 0; i < Size; i++ {
		if g[r][i] == v || g[i][c] == v {
			return false
		}
	}
	br, bc := (r/3)*3, (c/3)*3
	for dr := 0; dr < 3; dr++ {
		for dc := 0; dc < 3; dc++ {
			if g[br+dr][bc+dc] == v {
				return false
			}
		}
	}
	return true
}
