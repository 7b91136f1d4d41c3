package commands

import (
	"fmt"
	"io"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Repr string `arg:"" help:"Puzzle as one character per cell in row-major order"`

	stdout io.Writer
}

// Run reports 0, 1 or 2+ solutions without searching past the second
// one.
func (c *CheckCmd) Run(_ *Global) error {
	board, err := sudoku.Parse(c.Repr)
	if err != nil {
		return gserrors.PuzzleError(err)
	}

	it := board.Solutions()
	count := 0
	for count < 2 {
		if _, ok := it.Next(); !ok {
			break
		}
		count++
	}

	w := commandOutput(c.stdout)
	switch count {
	case 0:
		fmt.Fprintln(w, "0 solutions")
	case 1:
		fmt.Fprintln(w, "1 solution")
	default:
		fmt.Fprintln(w, "2+ solutions")
	}
	return nil
}
