package solve

import (
	"context"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

// lineBoard is a minimal engine for exercising the iterator: n cells,
// each holding a bitmask of open values, all cells mutually distinct.
type lineBoard struct {
	cells []uint64
}

func newLineBoard(n int) *lineBoard {
	full := uint64(1<<(n+1)) - 2
	cells := make([]uint64, n)
	for i := range cells {
		cells[i] = full
	}
	return &lineBoard{cells: cells}
}

func (b *lineBoard) Clone() *lineBoard {
	cells := make([]uint64, len(b.cells))
	copy(cells, b.cells)
	return &lineBoard{cells: cells}
}

func (b *lineBoard) Assign(idx int, guess Guess) bool {
	if b.cells[idx]&guess == 0 {
		return false
	}
	b.cells[idx] = guess
	for i := range b.cells {
		if i == idx {
			continue
		}
		b.cells[i] &^= guess
		if b.cells[i] == 0 {
			return false
		}
	}
	return true
}

func (b *lineBoard) Deduce() bool {
	for {
		progress := false
		for i, c := range b.cells {
			if c == 0 {
				return false
			}
			if bits.OnesCount64(c) != 1 {
				continue
			}
			for j, o := range b.cells {
				if j == i || o&c == 0 {
					continue
				}
				b.cells[j] &^= c
				if b.cells[j] == 0 {
					return false
				}
				progress = true
			}
		}
		if !progress {
			return true
		}
	}
}

func (b *lineBoard) NextGuessIndex() (int, bool) {
	best, bestCount := -1, 65
	for i, c := range b.cells {
		if n := bits.OnesCount64(c); n > 1 && n < bestCount {
			best, bestCount = i, n
		}
	}
	return best, best >= 0
}

func (b *lineBoard) Guesses(idx int) []Guess {
	var out []Guess
	c := b.cells[idx]
	for c != 0 {
		low := c & -c
		out = append(out, low)
		c &^= low
	}
	return out
}

func (b *lineBoard) Solved() bool {
	for _, c := range b.cells {
		if bits.OnesCount64(c) != 1 {
			return false
		}
	}
	return true
}

func (b *lineBoard) Len() int { return len(b.cells) }

func (b *lineBoard) Possibility(idx int, guess Guess) bool { return b.cells[idx]&guess != 0 }

func (b *lineBoard) Union(other *lineBoard) {
	for i := range b.cells {
		b.cells[i] |= other.cells[i]
	}
}

func TestIteratorEnumeratesAllPermutations(t *testing.T) {
	it := NewIterator(newLineBoard(3))
	seen := map[[3]uint64]bool{}
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		require.True(t, sol.Solved())
		var key [3]uint64
		copy(key[:], sol.cells)
		seen[key] = true
	}
	require.Len(t, seen, 6)
}

func TestIteratorCount(t *testing.T) {
	require.Equal(t, 24, NewIterator(newLineBoard(4)).Count())
}

func TestIteratorRespectsAssignments(t *testing.T) {
	b := newLineBoard(3)
	require.True(t, b.Assign(0, 1<<1))
	require.Equal(t, 2, NewIterator(b).Count())
}

func TestIteratorEmptyOnContradiction(t *testing.T) {
	b := newLineBoard(3)
	// Force cells 0 and 1 to the same single value.
	b.cells[0] = 1 << 2
	b.cells[1] = 1 << 2
	_, ok := NewIterator(b).Next()
	require.False(t, ok)
}

func TestIteratorDoesNotMutateInput(t *testing.T) {
	b := newLineBoard(3)
	before := append([]uint64(nil), b.cells...)
	NewIterator(b).Count()
	require.Equal(t, before, b.cells)
}

func TestTrueCandidatesUnionsSolutions(t *testing.T) {
	acc, ok := TrueCandidates(newLineBoard(3))
	require.True(t, ok)
	// Every value can appear in every cell across the 6 permutations.
	for _, c := range acc.cells {
		require.Equal(t, uint64(0b1110), c)
	}
}

func TestTrueCandidatesNoSolution(t *testing.T) {
	b := newLineBoard(2)
	b.cells[0] = 1 << 1
	b.cells[1] = 1 << 1
	_, ok := TrueCandidates(b)
	require.False(t, ok)
}

func TestTrueCandidatesContextMatchesExhaustive(t *testing.T) {
	want, ok := TrueCandidates(newLineBoard(4))
	require.True(t, ok)
	got, ok := TrueCandidatesContext(context.Background(), newLineBoard(4))
	require.True(t, ok)
	require.Equal(t, want.cells, got.cells)
}

func TestTrueCandidatesContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := TrueCandidatesContext(ctx, newLineBoard(3))
	require.False(t, ok)
}
