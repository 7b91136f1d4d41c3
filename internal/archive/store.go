package archive

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving solver results.
type Store interface {
	// Insert adds a new record. A missing ID or Created timestamp is
	// filled in before the write.
	Insert(ctx context.Context, rec *Record) error

	// Get retrieves a single record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// Recent retrieves the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// ByPuzzleHash retrieves all records for a puzzle hash, newest first.
	ByPuzzleHash(ctx context.Context, hash string) ([]Record, error)

	// Prune deletes records created before the cutoff and reports how
	// many were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Count reports the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close closes the store and releases resources.
	Close() error
}
