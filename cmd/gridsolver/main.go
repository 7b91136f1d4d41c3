package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gridsolver/cmd/gridsolver/commands"
	"git.home.luguber.info/inful/gridsolver/internal/config"
	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("gridsolver"),
		kong.Description("Sudoku constraint solver with a websocket listener daemon."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)

	verbose := config.NormalizeLogLevel(cli.LogLevel) == config.LogLevelDebug
	gserrors.NewCLIErrorAdapter(verbose, nil).HandleError(err)
}
