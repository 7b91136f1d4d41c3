package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based result archive.
// Use ":memory:" for in-memory storage, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOpenFailed, err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("%w: %v", ErrInitializeSchemaFailed, err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		created INTEGER NOT NULL,
		source TEXT NOT NULL,
		command TEXT NOT NULL,
		puzzle_hash TEXT NOT NULL,
		puzzle TEXT NOT NULL,
		result BLOB,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_created ON results(created);
	CREATE INDEX IF NOT EXISTS idx_results_puzzle_hash ON results(puzzle_hash);
	CREATE INDEX IF NOT EXISTS idx_results_command ON results(command);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Insert adds a new record. A missing ID or Created timestamp is filled in.
func (s *SQLiteStore) Insert(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO results (id, created, source, command, puzzle_hash, puzzle, result, duration_ms, outcome) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Created.UnixMilli(), rec.Source, rec.Command, rec.PuzzleHash, rec.Puzzle, rec.Result, rec.DurationMS, rec.Outcome,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	return nil
}

// Get retrieves a single record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, created, source, command, puzzle_hash, puzzle, result, duration_ms, outcome FROM results WHERE id = ?",
		id,
	)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	return rec, nil
}

// Recent retrieves the most recent records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created, source, command, puzzle_hash, puzzle, result, duration_ms, outcome FROM results ORDER BY created DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

// ByPuzzleHash retrieves all records for a puzzle hash, newest first.
func (s *SQLiteStore) ByPuzzleHash(ctx context.Context, hash string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created, source, command, puzzle_hash, puzzle, result, duration_ms, outcome FROM results WHERE puzzle_hash = ? ORDER BY created DESC, id",
		hash,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

// Prune deletes records created before the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM results WHERE created < ?",
		olderThan.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPruneFailed, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPruneFailed, err)
	}

	return removed, nil
}

// Count reports the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	return n, nil
}

func (s *SQLiteStore) scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, err)
	}

	return records, nil
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var createdMilli int64

	err := scan(&rec.ID, &createdMilli, &rec.Source, &rec.Command, &rec.PuzzleHash, &rec.Puzzle, &rec.Result, &rec.DurationMS, &rec.Outcome)
	if err != nil {
		return nil, err
	}

	rec.Created = time.UnixMilli(createdMilli)
	return &rec, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
