package sudoku

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionTwo(t *testing.T) {
	p := NewPartition(2, nil)

	var got [][]int
	for {
		a, ok := p.Next()
		if !ok {
			break
		}
		got = append(got, append([]int(nil), a...))
	}

	want := [][]int{
		{0, 0, 1, 1},
		{0, 1, 0, 1},
		{0, 1, 1, 0},
	}
	require.Equal(t, want, got)
}

func TestPartitionCountThree(t *testing.T) {
	p := NewPartition(3, nil)

	n := 0
	for {
		a, ok := p.Next()
		if !ok {
			break
		}
		n++
		// Every yield is balanced: three cells per region.
		var sizes [3]int
		for _, id := range a {
			sizes[id]++
		}
		require.Equal(t, [3]int{3, 3, 3}, sizes)
	}
	require.Equal(t, 280, n)
}

func TestPartitionCountFour(t *testing.T) {
	if testing.Short() {
		t.Skip("enumerates 2.6M partitions")
	}
	p := NewPartition(4, nil)

	n := 0
	for {
		if _, ok := p.Next(); !ok {
			break
		}
		n++
	}
	require.Equal(t, 2627625, n)
}

func TestPartitionResume(t *testing.T) {
	// Resuming from the first partition yields only the two after it.
	p := NewPartition(2, []int{0, 0, 1, 1})

	a, ok := p.Next()
	require.True(t, ok)
	require.Equal(t, []int{0, 1, 0, 1}, a)

	a, ok = p.Next()
	require.True(t, ok)
	require.Equal(t, []int{0, 1, 1, 0}, a)

	_, ok = p.Next()
	require.False(t, ok)
}

func TestPartitionExhausted(t *testing.T) {
	p := NewPartition(2, []int{0, 1, 1, 0})

	_, ok := p.Next()
	require.False(t, ok)
	_, ok = p.Next()
	require.False(t, ok)
}
