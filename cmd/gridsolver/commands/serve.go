package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/daemon"
	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	StopTimeout time.Duration `help:"How long to wait for a clean shutdown" default:"30s"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, configPath, err := loadServeConfig(root.Config)
	if err != nil {
		return err
	}

	// Create main context for the daemon
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg, configPath, nil)
	if err != nil {
		return gserrors.WrapError(err, gserrors.CategoryDaemon, "failed to create daemon")
	}

	// Start daemon in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	slog.Info("Daemon started, waiting for shutdown signal...")

	// Wait for either error or shutdown signal
	select {
	case err := <-errChan:
		if err != nil {
			return gserrors.WrapError(err, gserrors.CategoryDaemon, "daemon error")
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	// Stop daemon gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), s.StopTimeout)
	defer stopCancel()

	if err := d.Stop(stopCtx); err != nil {
		return gserrors.WrapError(err, gserrors.CategoryDaemon, "failed to stop daemon")
	}

	slog.Info("Daemon stopped successfully")
	return nil
}

// loadServeConfig loads the configuration file. The default path may be
// absent, in which case the built-in defaults apply; an explicitly
// given path must exist.
func loadServeConfig(path string) (*config.Config, string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && path == defaultConfigPath {
			slog.Info("No configuration file, using defaults", "path", path)
			return config.Default(), "", nil
		}
		if os.IsNotExist(err) {
			return nil, "", gserrors.ConfigNotFound(path)
		}
		return nil, "", gserrors.FileError("stat", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", gserrors.ConfigInvalid(err)
	}
	return cfg, path, nil
}
