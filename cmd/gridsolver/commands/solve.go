package commands

import (
	"fmt"
	"io"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// SolveCmd implements the 'solve' command.
type SolveCmd struct {
	Repr string `arg:"" help:"Puzzle as one character per cell in row-major order, dots for open cells"`
	Show bool   `help:"Print the solved grid"`

	stdout io.Writer
}

func (s *SolveCmd) Run(_ *Global) error {
	board, err := sudoku.Parse(s.Repr)
	if err != nil {
		return gserrors.PuzzleError(err)
	}
	solved, err := board.Solve()
	if err != nil {
		return gserrors.SolveFailed(err)
	}

	w := commandOutput(s.stdout)
	fmt.Fprintln(w, "Solved!")
	if s.Show {
		fmt.Fprint(w, solved.String())
	}
	return nil
}
