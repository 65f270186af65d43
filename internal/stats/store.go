package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pwf/internal/taxonomy"
)

// Store persists stats snapshots in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the snapshot database, creating the
// parent directory when needed.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at    TEXT    NOT NULL,
	path        TEXT    NOT NULL,
	category    TEXT    NOT NULL,
	file_count  INTEGER NOT NULL,
	total_bytes INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_path_taken
	ON snapshots(path, taken_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Save persists one report as a snapshot; all category rows share the
// report timestamp.
func (s *Store) Save(ctx context.Context, report Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	takenAt := report.TakenAt.UTC().Format(time.RFC3339Nano)
	for _, entry := range report.Entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (taken_at, path, category, file_count, total_bytes)
			 VALUES (?, ?, ?, ?, ?)`,
			takenAt, report.Path, string(entry.Category), entry.Count, entry.Bytes)
		if err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// History returns up to limit snapshots for path, newest first.
func (s *Store) History(ctx context.Context, path string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT taken_at, category, file_count, total_bytes
		 FROM snapshots
		 WHERE path = ?
		 ORDER BY taken_at DESC, id ASC`, path)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var reports []Report
	var current *Report
	for rows.Next() {
		var takenAt, category string
		var count, bytes int64
		if err := rows.Scan(&takenAt, &category, &count, &bytes); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, takenAt)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", takenAt, err)
		}

		if current == nil || !current.TakenAt.Equal(ts) {
			if len(reports) == limit {
				break
			}
			reports = append(reports, Report{Path: path, TakenAt: ts})
			current = &reports[len(reports)-1]
		}
		current.Entries = append(current.Entries, Entry{
			Category: taxonomy.Category(category),
			Count:    count,
			Bytes:    bytes,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return reports, nil
}
