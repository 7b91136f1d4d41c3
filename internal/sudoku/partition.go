package sudoku

// Partition enumerates the balanced partitions of a size x size grid
// into size regions of size cells each. Assignments come out in
// canonical restricted-growth order: region ids appear in order of
// first use, so cell 0 is always region 0 and no id exceeds the prefix
// maximum by more than one. For sizes 2, 3 and 4 this yields 3, 280
// and 2627625 partitions.
type Partition struct {
	size    int
	data    []int
	scratch []int
	done    bool
}

// NewPartition returns an iterator over every balanced partition. A
// non-nil start must be a full size*size assignment; enumeration then
// resumes from the partition after it, without yielding start itself.
func NewPartition(size int, start []int) *Partition {
	p := &Partition{
		size:    size,
		data:    make([]int, 0, size*size),
		scratch: make([]int, size),
	}
	p.data = append(p.data, start...)
	return p
}

// Next returns the next assignment, one region id per cell in row-major
// order. The returned slice aliases the iterator's state and is only
// valid until the following call.
func (p *Partition) Next() ([]int, bool) {
	if p.done {
		return nil, false
	}
	if len(p.data) == 0 {
		for id := 0; id < p.size; id++ {
			for j := 0; j < p.size; j++ {
				p.data = append(p.data, id)
			}
		}
		return p.data, true
	}

	// Release cells from the tail into scratch until one can move to a
	// higher region id, then refill the freed tail in ascending order.
	i := p.size*p.size - 1
	for i > 0 {
		cur := p.data[i]
		p.scratch[cur]++
		for next := cur + 1; next < p.size; next++ {
			if p.scratch[next] == 0 {
				continue
			}
			if !p.canonical(i, next) {
				break
			}
			p.data[i] = next
			p.scratch[next]--
			i++
			for id := 0; id < p.size; id++ {
				for n := p.scratch[id]; n > 0; n-- {
					p.data[i] = id
					i++
				}
				p.scratch[id] = 0
			}
			return p.data, true
		}
		i--
	}
	p.done = true
	return nil, false
}

// canonical reports whether region id may occupy position i: a
// restricted-growth string allows an id at most one above the maximum
// of the prefix before it.
func (p *Partition) canonical(i, id int) bool {
	max := 0
	for k := 0; k < i; k++ {
		if p.data[k] > max+1 {
			return false
		}
		if p.data[k] > max {
			max = p.data[k]
		}
	}
	return id <= max+1
}
