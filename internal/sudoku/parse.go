package sudoku

import (
	"math"
	"strconv"
	"strings"
)

// Parse reads a flat string of givens, one character per cell in
// row-major order. Hex digits are givens, so boards past 9x9 use a-f;
// any other character is an open cell. The digit range grows to the
// largest given when that exceeds the side length.
func Parse(repr string) (*Board, error) {
	size := int(math.Sqrt(float64(len(repr))))
	if size*size != len(repr) {
		return nil, ErrBadSize
	}

	digits := make([]Bits, size*size)
	maxVal := size
	for i := 0; i < len(repr); i++ {
		d, ok := hexDigitValue(repr[i])
		if !ok {
			continue
		}
		if d > maxVal {
			maxVal = d
		}
		digits[i] = bitFor(d)
	}
	return FromDigits(size, maxVal, digits)
}

func hexDigitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// FromRegions builds an empty board from a flat region assignment, one
// region id per cell in row-major order. Each region must hold exactly
// size cells.
func FromRegions(size, maxVal int, assignment []int) (*Board, error) {
	if size <= 0 || size > MaxSize {
		return nil, ErrOutOfBounds
	}
	if len(assignment) != size*size {
		return nil, ErrBadSize
	}

	regions := make([][]int, size)
	for idx, r := range assignment {
		if r < 0 || r >= size {
			return nil, ErrIrregularRegions
		}
		regions[r] = append(regions[r], idx)
	}
	for _, region := range regions {
		if len(region) != size {
			return nil, ErrIrregularRegions
		}
	}
	return newWithRegions(size, maxVal, regions, nil)
}

// rcToIndex converts a 1-based R#C# cell reference to a flat index.
func rcToIndex(s string, size int) (int, error) {
	cpos := strings.IndexByte(s, 'C')
	if cpos < 0 {
		return 0, ErrBadCellRef
	}
	rowStr, ok := strings.CutPrefix(s[:cpos], "R")
	if !ok {
		return 0, ErrBadCellRef
	}
	x, err := strconv.Atoi(s[cpos+1:])
	if err != nil {
		return 0, ErrBadCellRef
	}
	y, err := strconv.Atoi(rowStr)
	if err != nil {
		return 0, ErrBadCellRef
	}
	if x < 1 || x > size || y < 1 || y > size {
		return 0, ErrBadCellRef
	}
	return (y-1)*size + (x - 1), nil
}
