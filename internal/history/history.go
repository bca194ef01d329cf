// Package history stores finished conversions in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Sentinel errors for history operations.
var (
	ErrEmptyPath    = errors.New("history path cannot be empty")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	source      TEXT NOT NULL,
	output      TEXT NOT NULL,
	result      TEXT NOT NULL,
	category    TEXT NOT NULL,
	size_bytes  INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	message     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_conversions_started ON conversions(started_at DESC);
`

// dirPermissions matches the settings directory.
const dirPermissions = 0o750

// Entry is one recorded conversion.
type Entry struct {
	ID        string
	Started   time.Time
	Source    string
	Output    string
	Result    string // success, warnings, failure, cancelled
	Category  string
	SizeBytes int64
	Duration  time.Duration
	Message   string
}

// Store is a conversion history backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading history schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("setting history schema version: %w", err)
	}
	return nil
}

// Record inserts e. Recording the same ID twice replaces the entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO conversions
			(id, started_at, source, output, result, category, size_bytes, duration_ms, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Started.UnixMilli(), e.Source, e.Output, e.Result, e.Category,
		e.SizeBytes, e.Duration.Milliseconds(), e.Message,
	)
	if err != nil {
		return fmt.Errorf("recording conversion: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, source, output, result, category, size_bytes, duration_ms, message
		FROM conversions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			startedMs  int64
			durationMs int64
		)
		if err := rows.Scan(&e.ID, &startedMs, &e.Source, &e.Output, &e.Result, &e.Category,
			&e.SizeBytes, &durationMs, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.Started = time.UnixMilli(startedMs)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	return out, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM conversions")
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
