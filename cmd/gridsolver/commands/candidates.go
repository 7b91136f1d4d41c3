package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/solve"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// CandidatesCmd implements the 'candidates' command.
type CandidatesCmd struct {
	Repr string `arg:"" help:"Puzzle as one character per cell in row-major order"`

	stdout io.Writer
}

// Run prints the union of every solution: each cell shows the digits it
// takes in at least one solution.
func (c *CandidatesCmd) Run(_ *Global) error {
	board, err := sudoku.Parse(c.Repr)
	if err != nil {
		return gserrors.PuzzleError(err)
	}
	union, ok := solve.TrueCandidatesContext(context.Background(), board)
	if !ok {
		return gserrors.SolveFailed(errors.New("puzzle has no solutions"))
	}
	fmt.Fprint(commandOutput(c.stdout), candidateGrid(union))
	return nil
}

// candidateGrid renders one row per line, each cell as its remaining
// digits in base 17, cells separated by single spaces.
func candidateGrid(b *sudoku.Board) string {
	var sb strings.Builder
	size := b.Size()
	for r := 0; r < size; r++ {
		for col := 0; col < size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			for _, d := range b.Candidates(r*size + col) {
				sb.WriteString(strconv.FormatInt(int64(d), 17))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
