// Package commands implements the gridsolver CLI subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/daemon"
	"git.home.luguber.info/inful/gridsolver/internal/sudoku"
)

// defaultConfigPath is probed when --config is not given. A missing
// file at this path is not an error; serve falls back to the built-in
// defaults.
const defaultConfigPath = "gridsolver.yaml"

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command grammar with global flags.
type CLI struct {
	Config    string `short:"c" help:"Configuration file path" default:"gridsolver.yaml"`
	LogLevel  string `help:"Log level: debug, info, warn or error" default:"info"`
	LogFormat string `help:"Log format: text or json" default:"text"`
	EnvFile   string `help:"Load environment variables from this file first" type:"path"`

	Solve      SolveCmd      `cmd:"" help:"Solve a puzzle given as a flat digit string"`
	FromFile   FromFileCmd   `cmd:"" name:"from-file" help:"Solve every line of a file as an individual puzzle"`
	Count      CountCmd      `cmd:"" help:"Count the solutions of a puzzle"`
	Candidates CandidatesCmd `cmd:"" help:"Print the true-candidates grid of a puzzle"`
	Check      CheckCmd      `cmd:"" help:"Report whether a puzzle has 0, 1 or 2+ solutions"`
	YinYang    YinYangCmd    `cmd:"" name:"yinyang" help:"Deduce the true candidates of a yin-yang puzzle"`
	Irregular  IrregularCmd  `cmd:"" help:"Enumerate viable irregular region layouts for a grid size"`
	Serve      ServeCmd      `cmd:"" help:"Run the solver daemon in the foreground"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
	Version    VersionCmd    `cmd:"" help:"Show version and build information"`
}

// AfterApply runs after flag parsing; load the env file and set up
// logging once.
func (c *CLI) AfterApply() error {
	if c.EnvFile != "" {
		if err := config.LoadEnvFile(c.EnvFile); err != nil {
			return err
		}
	}
	logger := daemon.NewLogger(config.LoggingConfig{
		Level:  config.NormalizeLogLevel(c.LogLevel),
		Format: config.NormalizeLogFormat(c.LogFormat),
	})
	slog.SetDefault(logger)
	return nil
}

// commandOutput returns w, or os.Stdout when no writer was injected.
func commandOutput(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return os.Stdout
}

// solveRepr parses a flat digit representation and solves it, demanding
// a unique solution.
func solveRepr(repr string) (*sudoku.Board, error) {
	board, err := sudoku.Parse(repr)
	if err != nil {
		return nil, err
	}
	return board.Solve()
}
