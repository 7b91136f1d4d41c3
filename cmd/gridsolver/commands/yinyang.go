package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/solve"
	"git.home.luguber.info/inful/gridsolver/internal/yinyang"
)

// YinYangCmd implements the 'yinyang' command.
type YinYangCmd struct {
	Height int    `arg:"" help:"Number of rows"`
	Width  int    `arg:"" help:"Number of columns"`
	Repr   string `arg:"" help:"Grid as one character per cell: 0 empty, 1 shaded, 2 unshaded"`

	stdout io.Writer
}

// Run prints the union of every completion: 1 shaded, 2 unshaded, 3
// reachable both ways.
func (y *YinYangCmd) Run(_ *Global) error {
	if y.Height < 1 || y.Width < 1 {
		return gserrors.ValidationError("height and width must be positive")
	}
	puzzle, err := yinyang.Parse(y.Height, y.Width, y.Repr)
	if err != nil {
		return gserrors.PuzzleError(err)
	}
	union, ok := solve.TrueCandidatesContext(context.Background(), puzzle)
	if !ok {
		return gserrors.SolveFailed(errors.New("puzzle has no solutions"))
	}
	fmt.Fprint(commandOutput(y.stdout), union.String())
	return nil
}
