package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if gse, ok := err.(*GridSolverError); ok {
		return a.exitCodeFromCategory(gse)
	}

	return 1
}

// exitCodeFromCategory maps GridSolverError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(err *GridSolverError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryAuth:
		return 5 // Auth error
	case CategoryNetwork, CategoryGit, CategoryEvents:
		return 8 // External system error
	case CategorySolver, CategoryPuzzle, CategoryFileSystem, CategoryArchive:
		return 11 // Solving error
	case CategoryDaemon, CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if gse, ok := err.(*GridSolverError); ok {
		return a.formatGridSolver(gse)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatGridSolver formats a GridSolverError for display.
func (a *CLIErrorAdapter) formatGridSolver(err *GridSolverError) string {
	if a.verbose {
		return err.Error()
	}

	if err.Cause != nil {
		return fmt.Sprintf("Error: %v", err.Cause)
	}
	return fmt.Sprintf("Error: %s", err.Message)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if gse, ok := err.(*GridSolverError); ok {
		return gse.Category == CategoryInternal ||
			gse.Category == CategoryRuntime ||
			gse.Category == CategoryDaemon
	}

	return false
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if gse, ok := err.(*GridSolverError); ok {
		level := a.slogLevelFromSeverity(gse.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(gse.Category)),
		}
		if gse.Retryable {
			attrs = append(attrs, slog.Bool("retryable", true))
		}

		a.logger.LogAttrs(nil, level, gse.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts GridSolverError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
