package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

func TestSolveCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := &SolveCmd{Repr: uniquePuzzle, stdout: &buf}
	require.NoError(t, cmd.Run(nil))
	require.Equal(t, "Solved!\n", buf.String())
}

func TestSolveCmdShow(t *testing.T) {
	var buf bytes.Buffer
	cmd := &SolveCmd{Repr: uniquePuzzle, Show: true, stdout: &buf}
	require.NoError(t, cmd.Run(nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	require.Equal(t, "Solved!", lines[0])
	for _, row := range lines[1:] {
		require.Len(t, row, 9)
		require.NotContains(t, row, ".")
	}
	// Givens survive into the solution.
	require.Equal(t, byte('1'), lines[1][0])
	require.Equal(t, byte('9'), lines[1][1])
}

func TestSolveCmdBadRepr(t *testing.T) {
	err := (&SolveCmd{Repr: "12345"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryPuzzle))
	require.ErrorIs(t, err, sudoku.ErrBadSize)
}

func TestSolveCmdNoSolution(t *testing.T) {
	err := (&SolveCmd{Repr: unsolvablePuzzle}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategorySolver))
	require.ErrorIs(t, err, sudoku.ErrContradiction)
}

func TestSolveCmdMultipleSolutions(t *testing.T) {
	err := (&SolveCmd{Repr: strings.Repeat(".", 16)}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategorySolver))
	require.ErrorIs(t, err, sudoku.ErrMultipleSolutions)
}

func TestFromFileCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles.txt")
	content := uniquePuzzle + "\n" + "12345" + "\n" + unsolvablePuzzle + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var errbuf bytes.Buffer
	cmd := &FromFileCmd{Path: path, stderr: &errbuf}
	require.NoError(t, cmd.Run(nil))

	out := errbuf.String()
	require.NotContains(t, out, "line 0")
	require.Contains(t, out, "Error on line 1: not a square board")
	require.Contains(t, out, "Error on line 2: contradiction")
}

func TestFromFileCmdMissing(t *testing.T) {
	cmd := &FromFileCmd{Path: filepath.Join(t.TempDir(), "absent.txt")}
	err := cmd.Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryFileSystem))
}
