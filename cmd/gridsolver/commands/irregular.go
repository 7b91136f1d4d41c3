package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// sudokuCount[n] is the number of solved n x n grids up to permuting
// the digits, used as the counting ceiling for irregular layouts.
// Sizes 7 and 8 carry a practical ceiling instead of the true count.
var sudokuCount = [10]int{
	0,
	1,
	1,
	1,
	1,
	2,
	46_080,
	100_000_000,
	100_000_000,
	18_383_222_420_692_992,
}

// enumerationCap aborts the walk after this many examined layouts.
const enumerationCap = 100_000_000

// IrregularCmd implements the 'irregular' command.
type IrregularCmd struct {
	Size  int    `arg:"" help:"Side length of the grid (2-9)"`
	Out   string `help:"Write viable layouts to this file instead of stdout" type:"path"`
	Start string `help:"Resume after this region assignment (comma-separated ids)"`

	stdout io.Writer
}

func (c *IrregularCmd) Run(_ *Global) error {
	if c.Size < 2 || c.Size >= len(sudokuCount) {
		return gserrors.ValidationError("size must be between 2 and 9")
	}
	start, err := parseStart(c.Start, c.Size)
	if err != nil {
		return err
	}

	stdout := commandOutput(c.stdout)
	record := stdout
	var progress io.Writer
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return gserrors.FileError("create", err)
		}
		defer f.Close()
		record = f
		progress = stdout
	}

	viable, total := enumerateIrregular(c.Size, record, progress, start)
	fmt.Fprintf(stdout, "%d / %d\n", viable, total)
	return nil
}

// enumerateIrregular walks every balanced partition, seeds the first
// row with 1..size and counts solutions up to the per-size ceiling.
// Layouts whose count lands in 1..ceiling are recorded as the count
// followed by the region assignment. Progress, when non-nil, receives
// the assignment of every recorded layout.
func enumerateIrregular(size int, record, progress io.Writer, start []int) (viable, total int) {
	iter := sudoku.NewPartition(size, start)
	target := sudokuCount[size]

enumerate:
	for {
		assignment, ok := iter.Next()
		if !ok {
			break
		}
		board, err := sudoku.FromRegions(size, size, assignment)
		if err != nil {
			continue
		}
		for i := 0; i < size; i++ {
			if _, err := board.SetDigit(i, i+1); err != nil {
				break enumerate
			}
		}
		count := board.CountUpTo(target)
		if count > 0 && count <= target {
			fmt.Fprintln(record, count)
			printRegions(record, assignment)
			if progress != nil {
				printRegions(progress, assignment)
			}
			viable++
		}
		total++
		if total > enumerationCap {
			// Leave a resume hint at the abort point.
			w := progress
			if w == nil {
				w = record
			}
			printRegions(w, assignment)
			break
		}
	}
	return viable, total
}

// printRegions writes an assignment as bracketed ids: "[0 0 1 1 ]".
func printRegions(w io.Writer, assignment []int) {
	fmt.Fprint(w, "[")
	for _, id := range assignment {
		fmt.Fprintf(w, "%d ", id)
	}
	fmt.Fprintln(w, "]")
}

// parseStart reads a comma-separated region assignment for --start.
func parseStart(s string, size int) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != size*size {
		return nil, gserrors.ValidationError(fmt.Sprintf("start assignment needs %d cells", size*size))
	}
	out := make([]int, len(parts))
	for i, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id < 0 || id >= size {
			return nil, gserrors.ValidationError(fmt.Sprintf("bad region id %q in start assignment", strings.TrimSpace(part)))
		}
		out[i] = id
	}
	return out, nil
}
