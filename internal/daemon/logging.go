package daemon

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/gridsolver/internal/config"
)

// NewLogger builds a slog logger from the logging configuration.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level)}

	var handler slog.Handler
	if config.NormalizeLogFormat(string(cfg.Format)) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func slogLevel(level config.LogLevel) slog.Level {
	switch config.NormalizeLogLevel(string(level)) {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
