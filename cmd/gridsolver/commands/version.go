package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/gridsolver/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct {
	stdout io.Writer
}

func (v *VersionCmd) Run(_ *Global) error {
	w := commandOutput(v.stdout)
	fmt.Fprintf(w, "gridsolver %s\n", version.Version)
	fmt.Fprintf(w, "commit: %s\n", version.GitCommit)
	fmt.Fprintf(w, "built:  %s\n", version.BuildTime)
	return nil
}
