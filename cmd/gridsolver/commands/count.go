package commands

import (
	"context"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// CountCmd implements the 'count' command.
type CountCmd struct {
	Repr string `arg:"" help:"Puzzle as one character per cell in row-major order"`
	Max  int    `help:"Stop once the total exceeds this many solutions" default:"0"`

	stdout io.Writer
}

func (c *CountCmd) Run(_ *Global) error {
	if c.Max < 0 {
		return gserrors.ValidationError("--max must not be negative")
	}
	board, err := sudoku.Parse(c.Repr)
	if err != nil {
		return gserrors.PuzzleError(err)
	}

	w := commandOutput(c.stdout)
	p := message.NewPrinter(language.English)

	if c.Max > 0 {
		total := board.CountUpTo(c.Max)
		if total > c.Max {
			p.Fprintf(w, "more than %d solutions\n", c.Max)
			return nil
		}
		printSolutionCount(p, w, total)
		return nil
	}

	partials := make(chan int, 100)
	go func() {
		board.SolutionCount(context.Background(), partials)
		close(partials)
	}()
	total := 0
	for n := range partials {
		total += n
	}
	printSolutionCount(p, w, total)
	return nil
}

// printSolutionCount writes a count with thousands separators.
func printSolutionCount(p *message.Printer, w io.Writer, total int) {
	if total == 1 {
		p.Fprintf(w, "1 solution\n")
		return
	}
	p.Fprintf(w, "%d solutions\n", total)
}
