package sudoku

import "slices"

// Constraint is a rule beyond row, column, and region distinctness.
// Implementations touch only the candidate grid.
type Constraint interface {
	// init propagates the constraint while the board is built.
	init(b *Board) (Elimination, error)
	// enforce rechecks the constraint after value was placed at idx.
	enforce(b *Board, idx int, value Bits) (Elimination, error)
	// check reports whether the decided grid satisfies the constraint.
	check(b *Board) bool
	// extraHouse returns the constraint's cells when they form a full
	// house of the given size, nil otherwise.
	extraHouse(size int) []int
}

// quadruple requires its single digits to appear at least once and its
// double digits exactly twice within the 2x2 group anchored at the top
// left cell.
type quadruple struct {
	anchor int
	single Bits
	double Bits
}

func (q *quadruple) group(size int) [4]int {
	return [4]int{q.anchor, q.anchor + 1, q.anchor + size, q.anchor + size + 1}
}

// coverage folds the candidate masks of group cells that can still
// hold a required digit: mask collects digits coverable once,
// doubleMask digits coverable at least twice, count the participating
// cells.
func (q *quadruple) coverage(b *Board) (mask, doubleMask Bits, count int) {
	required := q.single | q.double
	for _, i := range q.group(b.meta.size) {
		v := b.grid[i]
		if v&required == 0 {
			continue
		}
		count++
		add := v &^ doubleMask
		doubleMask |= mask & v
		mask ^= add
	}
	return mask, doubleMask, count
}

func (q *quadruple) init(b *Board) (Elimination, error) {
	mask, doubleMask, count := q.coverage(b)

	needed := q.single.count() + 2*q.double.count()
	if needed > count {
		return Same, ErrContradiction
	}
	if (mask|doubleMask)&q.single != q.single || doubleMask&q.double != q.double {
		return Same, ErrContradiction
	}
	if needed < count {
		return Same, nil
	}

	// Exactly as many participants as required digit slots, so the
	// participants hold nothing else.
	required := q.single | q.double
	ret := Same
	for _, i := range q.group(b.meta.size) {
		v := b.grid[i]
		if v&required == 0 {
			continue
		}
		res, err := b.eliminate(i, v&^required)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

func (q *quadruple) enforce(b *Board, idx int, _ Bits) (Elimination, error) {
	group := q.group(b.meta.size)
	if idx != group[0] && idx != group[1] && idx != group[2] && idx != group[3] {
		return Same, nil
	}
	mask, doubleMask, count := q.coverage(b)
	if q.single.count()+2*q.double.count() > count {
		return Same, ErrContradiction
	}
	if (mask|doubleMask)&q.single != q.single || doubleMask&q.double != q.double {
		return Same, ErrContradiction
	}
	return Same, nil
}

func (q *quadruple) check(b *Board) bool {
	var seen, seenTwice Bits
	for _, i := range q.group(b.meta.size) {
		v := b.grid[i]
		add := v &^ seenTwice
		seenTwice |= seen & v
		seen ^= add
	}
	return (seen|seenTwice)&q.single == q.single && seenTwice&q.double == q.double
}

func (q *quadruple) extraHouse(int) []int { return nil }

// extraRegion keeps its member cells pairwise distinct. Diagonals and
// extra-region constraints both land here.
type extraRegion struct {
	cells []int
}

func (r *extraRegion) init(*Board) (Elimination, error) { return Same, nil }

func (r *extraRegion) enforce(b *Board, idx int, value Bits) (Elimination, error) {
	if !slices.Contains(r.cells, idx) {
		return Same, nil
	}
	ret := Same
	for _, i := range r.cells {
		if i == idx {
			continue
		}
		res, err := b.eliminate(i, value)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

func (r *extraRegion) check(b *Board) bool {
	var seen Bits
	for _, i := range r.cells {
		v := b.grid[i]
		if v.count() != 1 {
			continue
		}
		if seen&v != 0 {
			return false
		}
		seen |= v
	}
	return true
}

func (r *extraRegion) extraHouse(size int) []int {
	if len(r.cells) == size {
		return r.cells
	}
	return nil
}
