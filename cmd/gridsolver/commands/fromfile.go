package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

// FromFileCmd implements the 'from-file' command.
type FromFileCmd struct {
	Path string `arg:"" help:"File with one puzzle per line" type:"path"`

	stderr io.Writer
}

// Run solves each line independently. A bad line is reported with its
// zero-based line number and the remaining lines still run.
func (f *FromFileCmd) Run(_ *Global) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return gserrors.FileError("open", err)
	}
	defer file.Close()

	errw := f.stderr
	if errw == nil {
		errw = os.Stderr
	}

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		if _, err := solveRepr(scanner.Text()); err != nil {
			fmt.Fprintf(errw, "Error on line %d: %v\n", line, err)
		}
		line++
	}
	if err := scanner.Err(); err != nil {
		return gserrors.FileError("read", err)
	}
	return nil
}
