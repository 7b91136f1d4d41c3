package sudoku

import (
	"slices"

	"git.home.luguber.info/inful/gridsolver/internal/fpuzzles"
)

// FromPuzzle converts an f-puzzles description into a board:
// quadruples and extra regions become constraints, diagonals become
// extra regions, irregular layouts replace the default boxes, then
// givens and given pencil marks are applied.
func FromPuzzle(f *fpuzzles.Puzzle) (*Board, error) {
	if f.Size <= 0 || f.Size > MaxSize {
		return nil, ErrOutOfBounds
	}
	if len(f.Grid) > f.Size {
		return nil, ErrOutOfBounds
	}
	for _, row := range f.Grid {
		if len(row) > f.Size {
			return nil, ErrOutOfBounds
		}
	}

	constraints, err := puzzleConstraints(f)
	if err != nil {
		return nil, err
	}

	var b *Board
	if f.IsIrregular() {
		regions, rerr := puzzleRegions(f)
		if rerr != nil {
			return nil, rerr
		}
		for _, region := range regions {
			if len(region) != f.Size {
				return nil, ErrIrregularRegions
			}
		}
		b, err = newWithRegions(f.Size, f.Size, regions, constraints)
	} else {
		b, err = newWithConstraints(f.Size, f.Size, constraints)
	}
	if err != nil {
		return nil, err
	}

	for r, row := range f.Grid {
		for c, cell := range row {
			idx := r*f.Size + c
			switch {
			case cell.Value != nil:
				v, verr := b.toBits(*cell.Value)
				if verr != nil {
					return nil, verr
				}
				if b.grid[idx]&v == 0 {
					return nil, ErrContradiction
				}
				if _, aerr := b.assign(idx, v); aerr != nil {
					return nil, aerr
				}
			case len(cell.GivenPencilMarks) > 0:
				for v := 1; v <= b.meta.maxVal; v++ {
					if slices.Contains(cell.GivenPencilMarks, v) {
						continue
					}
					if _, eerr := b.eliminate(idx, bitFor(v)); eerr != nil {
						return nil, eerr
					}
				}
			}
		}
	}
	return b, nil
}

func puzzleConstraints(f *fpuzzles.Puzzle) ([]Constraint, error) {
	var constraints []Constraint

	for _, q := range f.Quadruple {
		if len(q.Cells) == 0 {
			return nil, ErrBadCellRef
		}
		anchor, err := rcToIndex(q.Cells[0], f.Size)
		if err != nil {
			return nil, err
		}
		// The anchor is the top left of a 2x2 group, so it cannot sit
		// on the last row or column.
		if anchor%f.Size == f.Size-1 || anchor/f.Size == f.Size-1 {
			return nil, ErrOutOfBounds
		}
		var single, double Bits
		for _, v := range q.Values {
			if v < 1 || v > f.Size {
				return nil, ErrValueTooLarge
			}
			bit := bitFor(v)
			if bit&double != 0 {
				// A digit cannot be required three times in four
				// cells of which two share a row.
				return nil, ErrContradiction
			}
			double |= single & bit
			single ^= bit
		}
		constraints = append(constraints, &quadruple{anchor: anchor, single: single, double: double})
	}

	for _, r := range f.ExtraRegion {
		cells := make([]int, 0, f.Size)
		for _, ref := range r.Cells {
			idx, err := rcToIndex(ref, f.Size)
			if err != nil {
				return nil, err
			}
			cells = append(cells, idx)
		}
		constraints = append(constraints, &extraRegion{cells: cells})
	}

	if f.NegativeDiagonal {
		cells := make([]int, 0, f.Size)
		for i := 0; i < f.Size; i++ {
			cells = append(cells, i*(f.Size+1))
		}
		constraints = append(constraints, &extraRegion{cells: cells})
	}
	if f.PositiveDiagonal {
		cells := make([]int, 0, f.Size)
		for i := 0; i < f.Size; i++ {
			cells = append(cells, (i+1)*(f.Size-1))
		}
		constraints = append(constraints, &extraRegion{cells: cells})
	}

	return constraints, nil
}

// puzzleRegions lays out region membership for an irregular puzzle,
// falling back to the default box for unmarked cells.
func puzzleRegions(f *fpuzzles.Puzzle) ([][]int, error) {
	width, height := dimensions[f.Size-1].width, dimensions[f.Size-1].height

	regions := make([][]int, f.Size)
	for r, row := range f.Grid {
		boxRow := (r / height) * height
		for c, cell := range row {
			region := boxRow + c/width
			if cell.Region != nil {
				region = *cell.Region
			}
			if region < 0 || region >= f.Size {
				return nil, ErrIrregularRegions
			}
			regions[region] = append(regions[region], r*f.Size+c)
		}
	}
	return regions, nil
}
