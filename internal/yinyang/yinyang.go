// Package yinyang solves yin-yang shading puzzles: the grid is colored
// in two colors so that each color forms one orthogonally connected
// area and no 2x2 square is entirely one color.
package yinyang

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/gridsolver/internal/solve"
)

// Cell states. Zero is undecided; unions of solved grids may hold 3
// for cells reachable both ways.
const (
	empty    = 0
	shaded   = 1
	unshaded = 2
)

// Error strings use the exact wording clients already display
// verbatim.
var ErrContradiction = errors.New("Puzzle has a contradiction.")

// BadDimensionsError reports a string representation whose length does
// not match the advertised grid.
type BadDimensionsError struct {
	Height, Width, Length int
}

func (e *BadDimensionsError) Error() string {
	return fmt.Sprintf("Bad dimensions: height is %d and width is %d, but length of the string representation is %d.", e.Height, e.Width, e.Length)
}

// BadEncodingError reports a character that is not a valid cell state.
type BadEncodingError struct {
	Char rune
}

func (e *BadEncodingError) Error() string {
	return fmt.Sprintf("Can't encode '%c' as shaded or unshaded in a yin-yang puzzle.", e.Char)
}

// deduction reports whether a strategy changed the grid.
type deduction uint8

const (
	same deduction = iota
	deduced
)

// Puzzle is one yin-yang solving state.
type Puzzle struct {
	height int
	width  int
	data   []int
}

// New returns an empty puzzle of the given dimensions.
func New(height, width int) *Puzzle {
	return &Puzzle{height: height, width: width, data: make([]int, height*width)}
}

// Parse reads a flat string representation, one character per cell in
// row-major order: 0 for empty, 1 for shaded, 2 for unshaded.
func Parse(height, width int, repr string) (*Puzzle, error) {
	if height*width != len(repr) {
		return nil, &BadDimensionsError{Height: height, Width: width, Length: len(repr)}
	}
	p := New(height, width)
	for i, c := range repr {
		switch c {
		case '0':
		case '1':
			p.data[i] = shaded
		case '2':
			p.data[i] = unshaded
		default:
			return nil, &BadEncodingError{Char: c}
		}
	}
	return p, nil
}

// Height returns the number of rows.
func (p *Puzzle) Height() int { return p.height }

// Width returns the number of columns.
func (p *Puzzle) Width() int { return p.width }

// twoByTwo fills the single empty cell of the 2x2 square anchored at
// idx with the opposite color when the other three cells match.
func (p *Puzzle) twoByTwo(idx int) deduction {
	ones := 0
	twos := 0
	emptyIdx := -1
	for _, off := range [4]int{0, 1, p.width, p.width + 1} {
		switch p.data[idx+off] {
		case shaded:
			ones++
		case unshaded:
			twos++
		default:
			emptyIdx = idx + off
		}
	}

	if ones == 3 && twos == 0 {
		p.data[emptyIdx] = unshaded
		return deduced
	}
	if twos == 3 && ones == 0 {
		p.data[emptyIdx] = shaded
		return deduced
	}
	return same
}

func (p *Puzzle) twoByTwoAll() deduction {
	ret := same
	for i := 0; i < p.height-1; i++ {
		for j := 0; j < p.width-1; j++ {
			if p.twoByTwo(i*p.width+j) == deduced {
				ret = deduced
			}
		}
	}
	return ret
}

// checkerboard handles 2x2 squares whose diagonal holds one color. A
// full checkerboard would disconnect one of the colors, so the cell
// that would complete it takes the diagonal's color instead.
func (p *Puzzle) checkerboard(idx int) (deduction, error) {
	// The square under inspection is:
	//   c1 c2
	//   c3 c4
	c1 := p.data[idx]
	c2 := p.data[idx+1]
	c3 := p.data[idx+p.width]
	c4 := p.data[idx+p.width+1]

	if c1 == c4 {
		other := 3 - c1
		if c2 == c3 && c2 == other {
			return same, ErrContradiction
		}
		if c2 == other && c3 == empty {
			p.data[idx+p.width] = c1
			return deduced, nil
		}
		if c3 == other && c2 == empty {
			p.data[idx+1] = c1
			return deduced, nil
		}
	} else if c2 == c3 {
		other := 3 - c2
		if c1 == other && c4 == empty {
			p.data[idx+p.width+1] = c2
			return deduced, nil
		}
		if c4 == other && c1 == empty {
			p.data[idx] = c2
			return deduced, nil
		}
	}
	return same, nil
}

func (p *Puzzle) checkerboardAll() (deduction, error) {
	ret := same
	for i := 0; i < p.height-1; i++ {
		for j := 0; j < p.width-1; j++ {
			res, err := p.checkerboard(i*p.width + j)
			if err != nil {
				return ret, err
			}
			if res == deduced {
				ret = deduced
			}
		}
	}
	return ret, nil
}

// deduce drains the 2x2 strategy, then tries checkerboards, repeating
// until neither makes progress.
func (p *Puzzle) deduce() (deduction, error) {
	ret := same
	for {
		for p.twoByTwoAll() == deduced {
			ret = deduced
		}
		res, err := p.checkerboardAll()
		if err != nil {
			return ret, err
		}
		if res == same {
			return ret, nil
		}
		ret = deduced
	}
}

// adjacent fills buf with the orthogonal neighbors of idx in up, left,
// right, down order.
func (p *Puzzle) adjacent(idx int, buf []int) []int {
	buf = buf[:0]
	r := idx / p.width
	c := idx % p.width
	if r > 0 {
		buf = append(buf, idx-p.width)
	}
	if c > 0 {
		buf = append(buf, idx-1)
	}
	if c < p.width-1 {
		buf = append(buf, idx+1)
	}
	if r < p.height-1 {
		buf = append(buf, idx+p.width)
	}
	return buf
}

// connected reports whether the cells of color can still join up: the
// component around the first such cell either has an empty escape
// route or already contains every cell of that color.
func (p *Puzzle) connected(color int) bool {
	start := -1
	for i, v := range p.data {
		if v == color {
			start = i
			break
		}
	}
	if start < 0 {
		return true
	}

	queue := make([]int, 0, len(p.data)/2)
	queue = append(queue, start)
	visited := make([]bool, len(p.data))
	visited[start] = true
	wayOut := false
	var buf []int
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		buf = p.adjacent(idx, buf)
		for _, n := range buf {
			if visited[n] {
				continue
			}
			switch p.data[n] {
			case empty:
				wayOut = true
			case color:
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	if wayOut {
		return true
	}
	for i, v := range p.data {
		if v == color && !visited[i] {
			return false
		}
	}
	return true
}

func (p *Puzzle) noFilledSquare() bool {
	for i := 0; i < p.height-1; i++ {
		for j := 0; j < p.width-1; j++ {
			idx := i*p.width + j
			ones := 0
			twos := 0
			for _, off := range [4]int{0, 1, p.width, p.width + 1} {
				switch p.data[idx+off] {
				case shaded:
					ones++
				case unshaded:
					twos++
				}
			}
			if ones == 4 || twos == 4 {
				return false
			}
		}
	}
	return true
}

// check reports whether the current grid can still be completed.
func (p *Puzzle) check() bool {
	return p.connected(shaded) && p.connected(unshaded) && p.noFilledSquare()
}

// Clone returns an independent copy.
func (p *Puzzle) Clone() *Puzzle {
	data := make([]int, len(p.data))
	copy(data, p.data)
	return &Puzzle{height: p.height, width: p.width, data: data}
}

// Assign colors the cell at idx and reports whether the grid still
// checks out.
func (p *Puzzle) Assign(idx int, guess solve.Guess) bool {
	p.data[idx] = int(guess)
	return p.check()
}

// Deduce runs the deduction strategies to a fixpoint and reports
// consistency.
func (p *Puzzle) Deduce() bool {
	_, err := p.deduce()
	return err == nil
}

// NextGuessIndex picks the first undecided cell.
func (p *Puzzle) NextGuessIndex() (int, bool) {
	for i, v := range p.data {
		if v == empty {
			return i, true
		}
	}
	return -1, false
}

// Guesses lists the two colors; any undecided cell could be either.
func (p *Puzzle) Guesses(int) []solve.Guess {
	return []solve.Guess{shaded, unshaded}
}

// Solved reports whether every cell is colored and the grid checks
// out.
func (p *Puzzle) Solved() bool {
	for _, v := range p.data {
		if v == empty {
			return false
		}
	}
	return p.check()
}

// Len returns the number of cells.
func (p *Puzzle) Len() int { return len(p.data) }

// Possibility reports whether the colors named by guess are among the
// colors recorded at idx. Meaningful on unions of solved grids.
func (p *Puzzle) Possibility(idx int, guess solve.Guess) bool {
	return p.data[idx]&int(guess) != 0
}

// Union merges another grid's colors into this one bitwise, so cells
// solvable both ways end up as 3.
func (p *Puzzle) Union(other *Puzzle) {
	for i, v := range other.data {
		p.data[i] |= v
	}
}

// Solutions iterates every completion of the puzzle.
func (p *Puzzle) Solutions() *solve.Iterator[*Puzzle] {
	return solve.NewIterator(p)
}

// String renders the grid one row per line with a space after every
// cell.
func (p *Puzzle) String() string {
	var sb strings.Builder
	for i := 0; i < p.height; i++ {
		for j := 0; j < p.width; j++ {
			sb.WriteString(strconv.Itoa(p.data[i*p.width+j]))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
