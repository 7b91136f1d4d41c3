package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *GridSolverError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(cause error) *GridSolverError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid")
}

func ValidationFailed(field, reason string) *GridSolverError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Puzzle and solving errors

func PuzzleError(cause error) *GridSolverError {
	return Wrap(cause, CategoryPuzzle, SeverityError, "puzzle rejected")
}

func SolveFailed(cause error) *GridSolverError {
	return Wrap(cause, CategorySolver, SeverityError, "solve failed")
}

func FileError(operation string, cause error) *GridSolverError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "file operation failed").
		WithContext("operation", operation)
}

func ArchiveError(operation string, cause error) *GridSolverError {
	return Wrap(cause, CategoryArchive, SeverityError, "archive operation failed").
		WithContext("operation", operation)
}

// Git errors

func GitCloneError(repo string, cause error) *GridSolverError {
	return Wrap(cause, CategoryGit, SeverityFatal, "repository clone failed").
		WithContext("repository", repo)
}

func GitAuthError(repo string, cause error) *GridSolverError {
	return Wrap(cause, CategoryAuth, SeverityFatal, "git authentication failed").
		WithContext("repository", repo)
}

func GitNetworkError(repo string, cause error) *GridSolverError {
	return WrapRetryable(cause, CategoryGit, SeverityWarning, "git network error").
		WithContext("repository", repo)
}

// Event stream errors

func EventsError(cause error) *GridSolverError {
	return WrapRetryable(cause, CategoryEvents, SeverityWarning, "event stream error")
}

// Network errors

func NetworkTimeout(url string, cause error) *GridSolverError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "network timeout").
		WithContext("url", url)
}

// Internal errors

func InternalError(message string, cause error) *GridSolverError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
