// Package solve provides a generic depth-first solution iterator for
// constraint grids. Any engine that can clone itself, assign a guess,
// and run its own deductions can be enumerated through Iterator and the
// true-candidate helpers.
package solve

// Guess is a candidate payload for a single cell. Engines encode their
// candidate however they like (the sudoku engine uses a digit bitmask,
// the yin-yang engine uses shade values) as long as Assign and
// Possibility agree on the encoding.
type Guess = uint64

// Solvable is the contract between a puzzle engine and the iterator.
// Methods must be cheap; the iterator calls them in a tight loop.
type Solvable[T any] interface {
	// Clone returns an independent copy. Mutating the copy must not
	// affect the original.
	Clone() T
	// Assign places a guess at idx and propagates it. It reports
	// whether the board is still consistent afterwards.
	Assign(idx int, guess Guess) bool
	// Deduce runs the engine's deductions to a fixpoint and reports
	// whether the board is still consistent.
	Deduce() bool
	// NextGuessIndex picks the cell to branch on, or reports false
	// when no unsolved cell remains.
	NextGuessIndex() (int, bool)
	// Guesses lists the candidate guesses for a cell.
	Guesses(idx int) []Guess
	// Solved reports whether every cell is decided.
	Solved() bool
	// Len is the number of cells.
	Len() int
	// Possibility reports whether guess is still open at idx.
	Possibility(idx int, guess Guess) bool
	// Union merges another board's candidates into this one.
	Union(other T)
}
