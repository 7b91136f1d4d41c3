package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`

	stdout io.Writer
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return gserrors.WrapError(err, gserrors.CategoryConfig, "could not write configuration")
	}
	fmt.Fprintf(commandOutput(i.stdout), "Wrote %s\n", root.Config)
	return nil
}
