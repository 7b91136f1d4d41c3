package solve

import "context"

// TrueCandidates returns the union of every solution of b: a board
// whose cells hold exactly the guesses that appear in at least one
// solution. The second return is false when the board has no solution.
//
// This enumerates the full solution space, so it is only suitable for
// boards with a manageable solution count.
func TrueCandidates[T Solvable[T]](b T) (T, bool) {
	var acc T
	found := false
	it := NewIterator(b)
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		if !found {
			acc = sol
			found = true
			continue
		}
		acc.Union(sol)
	}
	return acc, found
}

// TrueCandidatesContext computes the same union as TrueCandidates but
// probes candidates individually instead of enumerating solutions: for
// every open guess not yet proven reachable it assigns the guess and
// searches for a single witnessing solution. Heavily underconstrained
// boards finish far faster this way because no branch is ever walked
// past its first solution.
//
// Cancelling ctx abandons the probe; the second return is then false
// regardless of progress.
func TrueCandidatesContext[T Solvable[T]](ctx context.Context, b T) (T, bool) {
	var acc T
	it := NewIterator(b)
	sol, ok := it.Next()
	if !ok {
		return acc, false
	}
	acc = sol
	for idx := 0; idx < b.Len(); idx++ {
		for _, guess := range b.Guesses(idx) {
			if ctx.Err() != nil {
				return acc, false
			}
			// Already witnessed by an earlier solution.
			if acc.Possibility(idx, guess) {
				continue
			}
			probe := b.Clone()
			if !probe.Assign(idx, guess) {
				continue
			}
			pit := NewIterator(probe)
			if witness, ok := pit.Next(); ok {
				acc.Union(witness)
			}
		}
	}
	return acc, true
}
