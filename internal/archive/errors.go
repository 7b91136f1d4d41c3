package archive

// Package errors provides sentinel errors for archive operations.
// These enable consistent classification across the listener, queue and CLI paths.

import (
	"git.home.luguber.info/inful/gridsolver/internal/foundation/errors"
)

var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.ArchiveError("could not open archive database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.ArchiveError("failed to initialize archive schema").Build()

	// ErrInsertFailed indicates inserting a record failed.
	ErrInsertFailed = errors.ArchiveError("failed to insert archive record").Build()

	// ErrQueryFailed indicates querying records failed.
	ErrQueryFailed = errors.ArchiveError("failed to query archive records").Build()

	// ErrScanFailed indicates scanning record rows failed.
	ErrScanFailed = errors.ArchiveError("failed to scan archive rows").Build()

	// ErrPruneFailed indicates deleting expired records failed.
	ErrPruneFailed = errors.ArchiveError("failed to prune archive records").Build()

	// ErrNotFound indicates no record exists for the requested ID.
	ErrNotFound = errors.NewError(errors.CategoryNotFound, "archive record not found").Build()
)
