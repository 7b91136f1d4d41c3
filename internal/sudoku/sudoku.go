// Package sudoku implements a bitmask sudoku engine: boards up to
// 16x16 with regular or irregular regions, extra-region and quadruple
// constraints, elimination strategies, and parallel solution counting.
//
// Digit d occupies bit d of a cell's candidate mask, so bit 0 is never
// used. A board carries its mutable grid plus solved bookkeeping; the
// geometry (rows, columns, regions, constraints) is immutable and
// shared between clones behind a pointer.
package sudoku

import (
	"errors"
	"math/bits"
)

// MaxSize is the largest supported side length.
const MaxSize = 16

var (
	// ErrMaxTooLarge means the maximum digit value cannot be
	// represented, or is smaller than the board size.
	ErrMaxTooLarge = errors.New("maximum value out of range for this board")
	// ErrValueTooLarge means a digit exceeds the board's maximum value.
	ErrValueTooLarge = errors.New("value larger than the board maximum")
	// ErrOutOfBounds means an index or size is outside the grid.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrContradiction means the board cannot be completed.
	ErrContradiction = errors.New("contradiction")
	// ErrBadSize means a string or digit slice does not describe a
	// square board.
	ErrBadSize = errors.New("not a square board")
	// ErrBadDigit means a character cannot be read as a digit.
	ErrBadDigit = errors.New("invalid digit")
	// ErrIrregularRegions means irregular regions do not cover the
	// board with exactly size cells each.
	ErrIrregularRegions = errors.New("irregular regions do not evenly cover the board")
	// ErrBadCellRef means an R#C# cell reference cannot be parsed.
	ErrBadCellRef = errors.New("bad R#C# cell reference")
	// ErrMultipleSolutions means a puzzle expected to be unique is not.
	ErrMultipleSolutions = errors.New("multiple solutions")
)

// Bits is a candidate mask. Bit d set means digit d is still possible.
type Bits uint64

// count returns the number of candidates in the mask.
func (b Bits) count() int { return bits.OnesCount64(uint64(b)) }

// lowestDigit returns the smallest digit present in the mask.
func (b Bits) lowestDigit() int { return bits.TrailingZeros64(uint64(b)) }

// bitFor converts a digit value to its mask. Callers validate range.
func bitFor(v int) Bits { return 1 << v }

// cellSet tracks up to MaxSize*MaxSize cell indices.
type cellSet [4]uint64

func (s *cellSet) set(i int)      { s[i>>6] |= 1 << (i & 63) }
func (s *cellSet) has(i int) bool { return s[i>>6]&(1<<(i&63)) != 0 }

func (s *cellSet) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Elimination reports whether a strategy changed the board.
type Elimination uint8

const (
	// Same means no candidate was removed.
	Same Elimination = iota
	// Eliminated means at least one candidate was removed.
	Eliminated
)

// combine folds two results; Eliminated wins over Same.
func (e Elimination) combine(rhs Elimination) Elimination {
	if e == Eliminated {
		return e
	}
	return rhs
}
