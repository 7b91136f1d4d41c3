// Package errors provides a lightweight structured error type
// (GridSolverError) for category-based classification and retry
// semantics in the CLI and service paths.
package errors

import (
	"fmt"
)

// ErrorCategory classifies a GridSolver error for exit codes and logging
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"
	CategoryEvents  ErrorCategory = "events"

	// Puzzle and solving errors
	CategorySolver     ErrorCategory = "solver"
	CategoryPuzzle     ErrorCategory = "puzzle"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryArchive    ErrorCategory = "archive"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// GridSolverError is a structured error with category, retryability, and context
type GridSolverError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for GridSolverError
type ContextFields map[string]any

// Error implements the error interface
func (e *GridSolverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *GridSolverError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *GridSolverError) WithContext(key string, value any) *GridSolverError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new GridSolverError
func New(category ErrorCategory, severity ErrorSeverity, message string) *GridSolverError {
	return &GridSolverError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new GridSolverError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *GridSolverError {
	return &GridSolverError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// Retryable creates a new retryable GridSolverError
func Retryable(category ErrorCategory, severity ErrorSeverity, message string) *GridSolverError {
	return &GridSolverError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: true,
	}
}

// WrapRetryable creates a new retryable GridSolverError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *GridSolverError {
	return &GridSolverError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if gse, ok := err.(*GridSolverError); ok {
		return gse.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if gse, ok := err.(*GridSolverError); ok {
		return gse.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a GridSolverError
func GetCategory(err error) ErrorCategory {
	if gse, ok := err.(*GridSolverError); ok {
		return gse.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error (bad usage or input)
func ValidationError(message string) *GridSolverError {
	return &GridSolverError{
		Category:  CategoryValidation,
		Severity:  SeverityWarning,
		Message:   message,
		Retryable: false,
	}
}

// DaemonError creates a new daemon error (service unavailable)
func DaemonError(message string) *GridSolverError {
	return &GridSolverError{
		Category:  CategoryDaemon,
		Severity:  SeverityError,
		Message:   message,
		Retryable: false,
	}
}

// WrapError wraps an existing error with a new GridSolverError
func WrapError(err error, category ErrorCategory, message string) *GridSolverError {
	return &GridSolverError{
		Category:  category,
		Severity:  SeverityError,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}
