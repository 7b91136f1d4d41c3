package sudoku

import "slices"

// NakedSingles assigns every undecided cell that has exactly one
// candidate left.
func (b *Board) NakedSingles() (Elimination, error) {
	type single struct {
		idx  int
		mask Bits
	}
	var found []single
	for i, v := range b.grid {
		if v.count() == 1 && !b.solvedDigits.has(i) {
			found = append(found, single{i, v})
		}
	}

	ret := Same
	for _, s := range found {
		res, err := b.assign(s.idx, s.mask)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

// HiddenSingles assigns digits that have exactly one home left in some
// house. A digit with no home at all is a contradiction.
func (b *Board) HiddenSingles() (Elimination, error) {
	ret := Same
	for _, house := range b.meta.houses {
		res, err := b.hiddenSinglesHouse(house)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

func (b *Board) hiddenSinglesHouse(house []int) (Elimination, error) {
	// Assignments rewrite the grid mid-loop, so scan a snapshot and
	// recheck against the live cell before placing anything.
	snapshot := make([]Bits, len(house))
	for i, idx := range house {
		snapshot[i] = b.grid[idx]
	}

	ret := Same
	for d := 1; d <= b.meta.maxVal; d++ {
		v := bitFor(d)
		home := -1
		count := 0
		for i, mask := range snapshot {
			if mask&v != 0 {
				if count == 0 {
					home = house[i]
				}
				count++
				if count > 1 {
					break
				}
			}
		}
		if count == 0 {
			return ret, ErrContradiction
		}
		if count > 1 {
			continue
		}
		if b.grid[home]&v == 0 {
			// An earlier assignment took the digit's last home.
			return ret, ErrContradiction
		}
		res, err := b.assign(home, v)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

// NakedTuples finds n undecided cells in a house that share n
// candidate digits between them and removes those digits from the rest
// of the house.
func (b *Board) NakedTuples(n int) (Elimination, error) {
	ret := Same
	for _, house := range b.meta.houses {
		res, err := b.nakedTuplesHouse(n, house)
		if err != nil {
			return ret, err
		}
		ret = ret.combine(res)
	}
	return ret, nil
}

func (b *Board) nakedTuplesHouse(n int, house []int) (Elimination, error) {
	var used Bits
	for _, i := range house {
		if v := b.grid[i]; v.count() == 1 {
			used |= v
		}
	}

	free := make([]int, 0, b.meta.maxVal)
	for d := 1; d <= b.meta.maxVal; d++ {
		if bitFor(d)&used == 0 {
			free = append(free, d)
		}
	}

	ret := Same
	members := make([]int, 0, len(house))
	err := eachCombination(free, n, func(digits []int) error {
		var mask Bits
		for _, d := range digits {
			mask |= bitFor(d)
		}
		members = members[:0]
		for _, i := range house {
			if b.solvedDigits.has(i) {
				continue
			}
			if v := b.grid[i]; v&mask == v {
				members = append(members, i)
			}
		}
		if len(members) != n {
			return nil
		}
		for _, i := range house {
			if slices.Contains(members, i) {
				continue
			}
			res, err := b.eliminate(i, mask)
			if err != nil {
				return err
			}
			ret = ret.combine(res)
		}
		return nil
	})
	return ret, err
}

// eachCombination invokes fn with every n-element combination of vals
// in lexicographic order. The slice passed to fn is reused between
// calls.
func eachCombination(vals []int, n int, fn func([]int) error) error {
	if n <= 0 || n > len(vals) {
		return nil
	}
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	combo := make([]int, n)
	for {
		for i, j := range idxs {
			combo[i] = vals[j]
		}
		if err := fn(combo); err != nil {
			return err
		}
		i := n - 1
		for i >= 0 && idxs[i] == len(vals)-n+i {
			i--
		}
		if i < 0 {
			return nil
		}
		idxs[i]++
		for j := i + 1; j < n; j++ {
			idxs[j] = idxs[j-1] + 1
		}
	}
}

// deduce drains naked singles, then tries hidden singles, repeating
// until neither strategy makes progress.
func (b *Board) deduce() error {
	for {
		for {
			res, err := b.NakedSingles()
			if err != nil {
				return err
			}
			if res != Eliminated {
				break
			}
		}
		res, err := b.HiddenSingles()
		if err != nil {
			return err
		}
		if res == Eliminated {
			continue
		}
		return nil
	}
}

// nextGuessIndex picks the cell with the fewest open candidates,
// skipping decided cells.
func (b *Board) nextGuessIndex() (int, bool) {
	count := b.meta.size + 1
	best := -1
	for i, v := range b.grid {
		if n := v.count(); n != 1 && n < count {
			count = n
			best = i
		}
	}
	return best, best >= 0
}
