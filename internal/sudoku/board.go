package sudoku

import (
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/gridsolver/internal/solve"
)

// dimensions holds the box (width, height) per side length, so size 6
// uses 3x2 boxes and prime sizes fall back to single-row boxes.
var dimensions = [MaxSize]struct{ width, height int }{
	{1, 1}, {2, 1}, {3, 1}, {2, 2}, {5, 1}, {3, 2}, {7, 1}, {4, 2},
	{3, 3}, {5, 2}, {11, 1}, {4, 3}, {13, 1}, {7, 2}, {5, 3}, {4, 4},
}

// boardMeta is the immutable part of a board. Clones share it behind
// a pointer, so a guess only copies the candidate grid.
type boardMeta struct {
	size        int
	maxVal      int
	rows        [][]int
	columns     [][]int
	regions     [][]int
	constraints []Constraint
	houses      [][]int
}

// Board is one mutable solving state.
type Board struct {
	// usedDigits tracks distinct placed digits; boards whose digit
	// range exceeds their size may still use at most size of them.
	usedDigits   Bits
	solvedDigits cellSet
	grid         []Bits
	meta         *boardMeta
}

func buildDefaultRegions(size int) ([][]int, error) {
	if size <= 0 || size > MaxSize {
		return nil, ErrOutOfBounds
	}
	width, height := dimensions[size-1].width, dimensions[size-1].height

	regions := make([][]int, size)
	for boxY := 0; boxY < width; boxY++ {
		for boxX := 0; boxX < height; boxX++ {
			box := make([]int, 0, size)
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					box = append(box, (boxY*height+y)*size+boxX*width+x)
				}
			}
			regions[boxY*height+boxX] = box
		}
	}
	return regions, nil
}

// emptyCell returns the mask with every digit 1..maxVal open.
func emptyCell(maxVal int) (Bits, error) {
	if maxVal >= 64 {
		return 0, ErrMaxTooLarge
	}
	full := Bits(1)
	full <<= uint(maxVal + 1)
	full -= 2
	return full, nil
}

// New returns an empty board with default box regions.
func New(size, maxVal int) (*Board, error) {
	regions, err := buildDefaultRegions(size)
	if err != nil {
		return nil, err
	}
	return newWithRegions(size, maxVal, regions, nil)
}

func newWithConstraints(size, maxVal int, constraints []Constraint) (*Board, error) {
	regions, err := buildDefaultRegions(size)
	if err != nil {
		return nil, err
	}
	return newWithRegions(size, maxVal, regions, constraints)
}

func newWithRegions(size, maxVal int, regions [][]int, constraints []Constraint) (*Board, error) {
	if maxVal < size {
		return nil, ErrMaxTooLarge
	}
	full, err := emptyCell(maxVal)
	if err != nil {
		return nil, err
	}

	grid := make([]Bits, size*size)
	for i := range grid {
		grid[i] = full
	}

	rows := make([][]int, size)
	for r := 0; r < size; r++ {
		row := make([]int, size)
		for c := 0; c < size; c++ {
			row[c] = r*size + c
		}
		rows[r] = row
	}
	columns := make([][]int, size)
	for c := 0; c < size; c++ {
		col := make([]int, size)
		for r := 0; r < size; r++ {
			col[r] = r*size + c
		}
		columns[c] = col
	}

	meta := &boardMeta{
		size:        size,
		maxVal:      maxVal,
		rows:        rows,
		columns:     columns,
		regions:     regions,
		constraints: constraints,
	}
	meta.houses = buildHouses(meta)

	b := &Board{grid: grid, meta: meta}

	// Constraints can unlock each other, so initialize to a fixpoint.
	for {
		status := Same
		for _, c := range meta.constraints {
			res, err := c.init(b)
			if err != nil {
				return nil, err
			}
			status = status.combine(res)
		}
		if status != Eliminated {
			break
		}
	}
	return b, nil
}

// buildHouses collects every unit the single and tuple strategies
// search: rows, columns, regions, then constraint regions that span a
// full house.
func buildHouses(m *boardMeta) [][]int {
	houses := make([][]int, 0, 2*m.size+len(m.regions)+len(m.constraints))
	houses = append(houses, m.rows...)
	houses = append(houses, m.columns...)
	houses = append(houses, m.regions...)
	for _, c := range m.constraints {
		if h := c.extraHouse(m.size); h != nil {
			houses = append(houses, h)
		}
	}
	return houses
}

// FromDigits builds a board from given masks, one per cell in
// row-major order, zero meaning no given.
func FromDigits(size, maxVal int, digits []Bits) (*Board, error) {
	if len(digits) != size*size {
		return nil, ErrBadSize
	}
	b, err := New(size, maxVal)
	if err != nil {
		return nil, err
	}
	for i, d := range digits {
		if d == 0 {
			continue
		}
		if b.grid[i]&d == 0 {
			return nil, ErrContradiction
		}
		if _, err := b.assign(i, d); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Len returns the number of cells.
func (b *Board) Len() int { return len(b.grid) }

// Size returns the side length.
func (b *Board) Size() int { return b.meta.size }

// MaxValue returns the largest digit value in play. It equals Size
// unless givens or the digit range say otherwise.
func (b *Board) MaxValue() int { return b.meta.maxVal }

func (b *Board) toBits(value int) (Bits, error) {
	if value < 0 || value > b.meta.maxVal {
		return 0, ErrValueTooLarge
	}
	return bitFor(value), nil
}

// Candidates lists the digits still open at idx, ascending.
func (b *Board) Candidates(idx int) []int {
	out := make([]int, 0, b.meta.maxVal)
	v := b.grid[idx]
	for d := 1; d <= b.meta.maxVal; d++ {
		if v&bitFor(d) != 0 {
			out = append(out, d)
		}
	}
	return out
}

// CandidateVector flattens the candidate sets into a 0/1 slice with
// MaxValue entries per cell, in row-major order.
func (b *Board) CandidateVector() []int {
	out := make([]int, len(b.grid)*b.meta.maxVal)
	for idx, v := range b.grid {
		for d := 1; d <= b.meta.maxVal; d++ {
			if v&bitFor(d) != 0 {
				out[idx*b.meta.maxVal+d-1] = 1
			}
		}
	}
	return out
}

// Possibility reports whether the guess mask overlaps the candidates
// at idx.
func (b *Board) Possibility(idx int, guess solve.Guess) bool {
	return b.grid[idx]&Bits(guess) != 0
}

// Digits returns the decided digit per cell in row-major order, zero
// for undecided cells.
func (b *Board) Digits() []int {
	out := make([]int, len(b.grid))
	for i, v := range b.grid {
		if v.count() == 1 {
			out[i] = v.lowestDigit()
		}
	}
	return out
}

// assign writes a decided digit and eliminates it from the cell's row,
// column, first containing region, and constraints. Re-assigning a
// decided cell only re-runs the eliminations.
func (b *Board) assign(idx int, value Bits) (Elimination, error) {
	if !b.solvedDigits.has(idx) {
		b.grid[idx] = value
		b.solvedDigits.set(idx)
		b.usedDigits |= value
		if b.usedDigits.count() > b.meta.size {
			return Same, ErrContradiction
		}
	}

	row := idx / b.meta.size
	col := idx % b.meta.size

	ret := Same
	for _, i := range b.meta.rows[row] {
		if i == idx {
			continue
		}
		res, err := b.eliminate(i, value)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	for _, i := range b.meta.columns[col] {
		if i == idx {
			continue
		}
		res, err := b.eliminate(i, value)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	for _, region := range b.meta.regions {
		if !slices.Contains(region, idx) {
			continue
		}
		for _, i := range region {
			if i == idx {
				continue
			}
			res, err := b.eliminate(i, value)
			if err != nil {
				return ret, err
			}
			ret = ret.combine(res)
		}
		break
	}
	for _, c := range b.meta.constraints {
		res, err := c.enforce(b, idx, value)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

// eliminate clears the value bits at idx. Emptying a cell is a
// contradiction.
func (b *Board) eliminate(idx int, value Bits) (Elimination, error) {
	if b.grid[idx]&value == 0 {
		return Same, nil
	}
	b.grid[idx] &^= value
	if b.grid[idx] == 0 {
		return Same, ErrContradiction
	}
	return Eliminated, nil
}

// Solved reports whether every cell is decided and all constraints
// hold.
func (b *Board) Solved() bool {
	if b.solvedDigits.count() != len(b.grid) {
		return false
	}
	for _, c := range b.meta.constraints {
		if !c.check(b) {
			return false
		}
	}
	return true
}

// SetDigit places value at idx after validating bounds, digit range,
// and that the digit is still possible there.
func (b *Board) SetDigit(idx, value int) (Elimination, error) {
	if idx < 0 || idx >= b.Len() {
		return Same, ErrOutOfBounds
	}
	v, err := b.toBits(value)
	if err != nil {
		return Same, err
	}
	if b.grid[idx]&v == 0 {
		return Same, ErrContradiction
	}
	return b.assign(idx, v)
}

// RemoveCandidate eliminates value from the candidates at idx.
func (b *Board) RemoveCandidate(idx, value int) (Elimination, error) {
	if idx < 0 || idx >= b.Len() {
		return Same, ErrOutOfBounds
	}
	v, err := b.toBits(value)
	if err != nil {
		return Same, err
	}
	return b.eliminate(idx, v)
}

// Solutions iterates every solution of the board.
func (b *Board) Solutions() *solve.Iterator[*Board] {
	return solve.NewIterator(b)
}

// Solve returns the unique solution, ErrContradiction when there is
// none, and ErrMultipleSolutions when there are several.
func (b *Board) Solve() (*Board, error) {
	it := b.Solutions()
	first, ok := it.Next()
	if !ok {
		return nil, ErrContradiction
	}
	if _, more := it.Next(); more {
		return nil, ErrMultipleSolutions
	}
	return first, nil
}

// Clone returns an independent copy sharing the immutable geometry.
func (b *Board) Clone() *Board {
	grid := make([]Bits, len(b.grid))
	copy(grid, b.grid)
	return &Board{
		usedDigits:   b.usedDigits,
		solvedDigits: b.solvedDigits,
		grid:         grid,
		meta:         b.meta,
	}
}

// Union merges another board's candidates into this one.
func (b *Board) Union(other *Board) {
	for i, v := range other.grid {
		b.grid[i] |= v
	}
}

// Assign places a guess mask and reports whether the board stayed
// consistent.
func (b *Board) Assign(idx int, guess solve.Guess) bool {
	_, err := b.assign(idx, Bits(guess))
	return err == nil
}

// Deduce runs eliminations to a fixpoint and reports consistency.
func (b *Board) Deduce() bool { return b.deduce() == nil }

// Guesses lists the open candidate masks at idx.
func (b *Board) Guesses(idx int) []solve.Guess {
	out := make([]solve.Guess, 0, b.meta.maxVal)
	for _, d := range b.Candidates(idx) {
		out = append(out, solve.Guess(bitFor(d)))
	}
	return out
}

// NextGuessIndex picks the undecided cell with the fewest candidates.
func (b *Board) NextGuessIndex() (int, bool) { return b.nextGuessIndex() }

// String renders decided cells as base-17 digits and open cells as
// dots, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	size := b.meta.size
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			v := b.grid[r*size+c]
			if v.count() == 1 {
				sb.WriteString(strconv.FormatInt(int64(v.lowestDigit()), 17))
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
