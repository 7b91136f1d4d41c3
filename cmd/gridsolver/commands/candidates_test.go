package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

func TestCandidatesCmdUnique(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CandidatesCmd{Repr: uniquePuzzle, stdout: &buf}).Run(nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	for _, row := range lines {
		cells := strings.Split(row, " ")
		require.Len(t, cells, 9)
		// A unique puzzle leaves exactly one candidate everywhere.
		for _, cell := range cells {
			require.Len(t, cell, 1)
		}
	}
	require.Equal(t, "1", strings.Split(lines[0], " ")[0])
	require.Equal(t, "9", strings.Split(lines[0], " ")[1])
}

func TestCandidatesCmdOpenGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CandidatesCmd{Repr: strings.Repeat(".", 16), stdout: &buf}).Run(nil))
	require.Equal(t, strings.Repeat("1234 1234 1234 1234\n", 4), buf.String())
}

func TestCandidatesCmdNoSolution(t *testing.T) {
	err := (&CandidatesCmd{Repr: unsolvablePuzzle}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategorySolver))
}

func TestCandidatesCmdBadRepr(t *testing.T) {
	err := (&CandidatesCmd{Repr: "12345"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryPuzzle))
}

func TestYinYangCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := &YinYangCmd{Height: 4, Width: 4, Repr: "0020000020010000", stdout: &buf}
	require.NoError(t, cmd.Run(nil))
	require.Equal(t, "2 2 2 3 \n2 1 3 1 \n2 3 3 1 \n3 3 3 3 \n", buf.String())
}

func TestYinYangCmdContradiction(t *testing.T) {
	err := (&YinYangCmd{Height: 3, Width: 4, Repr: "121220010120"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategorySolver))
}

func TestYinYangCmdBadDimensions(t *testing.T) {
	err := (&YinYangCmd{Height: 2, Width: 2, Repr: "000"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryPuzzle))

	err = (&YinYangCmd{Height: 0, Width: 4, Repr: ""}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryValidation))
}
