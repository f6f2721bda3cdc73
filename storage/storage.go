// Package storage persists sessions in a local SQLite database and exposes
// the query surface the analytics engine consumes: interval-overlap range
// queries, dataset bounds, and change subscriptions.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lukaszraczylo/focus-reports/analytics"
	"github.com/lukaszraczylo/focus-reports/models"
)

// Storage handles persistence of sessions. It is a dumb query surface: all
// derived views are computed by the analytics package.
type Storage struct {
	db *sql.DB

	mu          sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// Open opens (creating if necessary) the session database at the given path.
func Open(dbPath string) (*Storage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	s := &Storage{
		db:          db,
		subscribers: make(map[int]func()),
	}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  start_unix INTEGER NOT NULL,
  end_unix INTEGER NOT NULL,
  duration INTEGER NOT NULL,
  planned_duration INTEGER NOT NULL,
  is_skipped INTEGER NOT NULL DEFAULT 0,
  extended_seconds INTEGER NOT NULL DEFAULT 0,
  notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_unix);
CREATE INDEX IF NOT EXISTS idx_sessions_end ON sessions(end_unix);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// SaveSession inserts or updates a session by id.
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	const stmt = `
INSERT INTO sessions (id, type, start_unix, end_unix, duration, planned_duration, is_skipped, extended_seconds, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  type = excluded.type,
  start_unix = excluded.start_unix,
  end_unix = excluded.end_unix,
  duration = excluded.duration,
  planned_duration = excluded.planned_duration,
  is_skipped = excluded.is_skipped,
  extended_seconds = excluded.extended_seconds,
  notes = excluded.notes;
`
	_, err := s.db.ExecContext(ctx, stmt,
		session.ID,
		string(session.Type),
		session.StartTime.Unix(),
		session.EndTime.Unix(),
		session.Duration,
		session.PlannedDuration,
		boolToInt(session.IsSkipped),
		session.ExtendedSeconds,
		session.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.notify()
	return nil
}

// ReplaceSessions atomically replaces the whole dataset.
func (s *Storage) ReplaceSessions(ctx context.Context, sessions []*models.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions;`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	const stmt = `
INSERT INTO sessions (id, type, start_unix, end_unix, duration, planned_duration, is_skipped, extended_seconds, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	for _, session := range sessions {
		if _, err := tx.ExecContext(ctx, stmt,
			session.ID,
			string(session.Type),
			session.StartTime.Unix(),
			session.EndTime.Unix(),
			session.Duration,
			session.PlannedDuration,
			boolToInt(session.IsSkipped),
			session.ExtendedSeconds,
			session.Notes,
		); err != nil {
			return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sessions: %w", err)
	}

	s.notify()
	return nil
}

// Clear deletes all session records.
func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions;`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	s.notify()
	return nil
}

// QueryRange returns all sessions whose interval intersects the half-open
// window [start, end), ordered by start time.
func (s *Storage) QueryRange(ctx context.Context, start, end time.Time) ([]*models.Session, error) {
	const query = `
SELECT id, type, start_unix, end_unix, duration, planned_duration, is_skipped, extended_seconds, notes
FROM sessions
WHERE end_unix >= ? AND start_unix < ?
ORDER BY start_unix ASC;
`
	rows, err := s.db.QueryContext(ctx, query, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// AllSessions returns the whole dataset ordered by start time.
func (s *Storage) AllSessions(ctx context.Context) ([]*models.Session, error) {
	const query = `
SELECT id, type, start_unix, end_unix, duration, planned_duration, is_skipped, extended_seconds, notes
FROM sessions
ORDER BY start_unix ASC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// Bounds returns the dataset extent: earliest session start and latest
// session end. An empty dataset yields zero bounds.
func (s *Storage) Bounds(ctx context.Context) (analytics.Bounds, error) {
	const query = `SELECT MIN(start_unix), MAX(end_unix) FROM sessions;`

	var earliest, latest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query).Scan(&earliest, &latest); err != nil {
		return analytics.Bounds{}, fmt.Errorf("failed to query session bounds: %w", err)
	}

	var bounds analytics.Bounds
	if earliest.Valid {
		bounds.EarliestStart = time.Unix(earliest.Int64, 0)
	}
	if latest.Valid {
		bounds.LatestEnd = time.Unix(latest.Int64, 0)
	}
	return bounds, nil
}

// Subscribe registers a callback fired after every successful write. The
// returned function unsubscribes it. Consumers should treat a notification
// as a trigger to recompute derived views from scratch, never to patch them
// in place.
func (s *Storage) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Storage) notify() {
	s.mu.Lock()
	callbacks := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// ExportJSON writes all sessions to a JSON file.
func (s *Storage) ExportJSON(ctx context.Context, outputPath string) error {
	sessions, err := s.AllSessions(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export data: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

// ImportJSON loads sessions from a JSON file. With overwrite false, sessions
// whose id already exists are skipped.
func (s *Storage) ImportJSON(ctx context.Context, inputPath string, overwrite bool) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var sessions []*models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return fmt.Errorf("failed to unmarshal import data: %w", err)
	}

	for _, session := range sessions {
		if !overwrite {
			var exists int
			err := s.db.QueryRowContext(ctx,
				`SELECT 1 FROM sessions WHERE id = ?;`, session.ID).Scan(&exists)
			if err == nil {
				continue
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("failed to check session %s: %w", session.ID, err)
			}
		}

		if err := s.SaveSession(ctx, session); err != nil {
			return err
		}
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanSession(rows *sql.Rows) (*models.Session, error) {
	var (
		session            models.Session
		sessionType        string
		startUnix, endUnix int64
		skipped            int
	)
	if err := rows.Scan(
		&session.ID,
		&sessionType,
		&startUnix,
		&endUnix,
		&session.Duration,
		&session.PlannedDuration,
		&skipped,
		&session.ExtendedSeconds,
		&session.Notes,
	); err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session.Type = models.SessionType(sessionType)
	session.StartTime = time.Unix(startUnix, 0)
	session.EndTime = time.Unix(endUnix, 0)
	session.IsSkipped = skipped == 1

	return &session, nil
}
