package solve

// frame is one branch point on the explicit DFS stack: a board state,
// the cell being branched on, and the guesses not yet tried there.
type frame[T any] struct {
	board   T
	idx     int
	guesses []Guess
}

// Iterator walks every solution of a board depth-first. It keeps an
// explicit stack instead of recursing so callers can stop early
// without unwinding, and so a single iterator can be resumed across
// calls.
//
// Each Next call pops a frame, tries the frame's next guess on the
// popped board and pushes a clone back with the remaining guesses, so
// abandoned branches cost nothing beyond the clone that was already
// paid for.
type Iterator[T Solvable[T]] struct {
	stack []frame[T]
}

// NewIterator prepares an iterator over all solutions of b. The input
// board is cloned; b itself is never mutated. The initial deduction
// runs here, so an inconsistent board yields an empty iterator
// immediately.
func NewIterator[T Solvable[T]](b T) *Iterator[T] {
	it := &Iterator[T]{}
	board := b.Clone()
	if !board.Deduce() {
		return it
	}
	idx, ok := board.NextGuessIndex()
	if !ok {
		if board.Solved() {
			it.stack = append(it.stack, frame[T]{board: board})
		}
		return it
	}
	it.stack = append(it.stack, frame[T]{board: board, idx: idx, guesses: board.Guesses(idx)})
	return it
}

// Next returns the next solution, or false when the search space is
// exhausted. Solutions are independent boards; the caller may keep or
// mutate them freely.
func (it *Iterator[T]) Next() (T, bool) {
	var zero T
	for len(it.stack) > 0 {
		n := len(it.stack) - 1
		f := it.stack[n]
		it.stack = it.stack[:n]

		// A frame without branch work is a finished solution that was
		// queued by NewIterator.
		if f.board.Solved() {
			return f.board, true
		}
		if len(f.guesses) == 0 {
			continue
		}
		guess := f.guesses[len(f.guesses)-1]
		f.guesses = f.guesses[:len(f.guesses)-1]

		// Requeue the untried guesses on a copy, then burn the popped
		// board on the chosen guess.
		it.stack = append(it.stack, frame[T]{board: f.board.Clone(), idx: f.idx, guesses: f.guesses})
		if !f.board.Assign(f.idx, guess) {
			continue
		}
		if !f.board.Deduce() {
			continue
		}
		if f.board.Solved() {
			return f.board, true
		}
		idx, ok := f.board.NextGuessIndex()
		if !ok {
			continue
		}
		it.stack = append(it.stack, frame[T]{board: f.board, idx: idx, guesses: f.board.Guesses(idx)})
	}
	return zero, false
}

// Count drains the iterator and returns how many solutions remained.
func (it *Iterator[T]) Count() int {
	n := 0
	for {
		if _, ok := it.Next(); !ok {
			return n
		}
		n++
	}
}
