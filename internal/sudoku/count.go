package sudoku

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// partialThreshold is the subtree solution count above which the total
// is flushed to the caller instead of propagating upward, so callers
// with a cap can stop the search early.
const partialThreshold = 500

// countSlots bounds the goroutines fanned out across all concurrent
// counts. A branch that cannot get a slot recurses inline.
var countSlots = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))

// SolutionCount counts the board's solutions, streaming counts into
// out: large subtrees as they complete, then the remainder. The sum of
// received values is the total. The receiver is consumed. Cancelling
// ctx abandons the search and drops unsent counts.
func (b *Board) SolutionCount(ctx context.Context, out chan<- int) {
	count := b.solutionCount(ctx, out)
	select {
	case out <- count:
	case <-ctx.Done():
	}
}

func (b *Board) solutionCount(ctx context.Context, out chan<- int) int {
	if ctx.Err() != nil {
		return 0
	}
	if b.deduce() != nil {
		return 0
	}
	if b.Solved() {
		return 1
	}
	idx, ok := b.nextGuessIndex()
	if !ok {
		return 0
	}

	var wg sync.WaitGroup
	var total atomic.Int64
	for _, d := range b.Candidates(idx) {
		child := b.Clone()
		if _, err := child.assign(idx, bitFor(d)); err != nil {
			continue
		}
		if countSlots.TryAcquire(1) {
			wg.Add(1)
			go func() {
				defer countSlots.Release(1)
				defer wg.Done()
				total.Add(int64(child.solutionCount(ctx, out)))
			}()
		} else {
			total.Add(int64(child.solutionCount(ctx, out)))
		}
	}
	wg.Wait()

	count := int(total.Load())
	if count > partialThreshold {
		select {
		case out <- count:
			return 0
		case <-ctx.Done():
			return count
		}
	}
	return count
}

// CountUpTo counts solutions until the total exceeds max, then cancels
// the search and returns what was accumulated. The count is exact when
// it is max or less.
func (b *Board) CountUpTo(max int) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	partials := make(chan int, 100)
	clone := b.Clone()
	go func() {
		clone.SolutionCount(ctx, partials)
		close(partials)
	}()

	count := 0
	for n := range partials {
		count += n
		if count > max {
			cancel()
			break
		}
	}
	// Drain whatever the cancelled search still flushed.
	for n := range partials {
		count += n
	}
	return count
}
