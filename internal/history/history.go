// Package history persists run and debug session records on top of a
// driver-agnostic database/sql wrapper: modernc.org/sqlite is the
// default pure-Go backend; Postgres, MySQL, and SQL Server are
// reachable through the same Store by driver name.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Record is one run or debug session entry.
type Record struct {
	ID        uuid.UUID
	Source    string
	Command   string // "run" or "debug"
	ExitCode  int
	StartedAt time.Time
	EndedAt   time.Time
}

// Store wraps a database/sql handle across the backends named above.
type Store struct {
	db *sql.DB
}

// Open opens a Store against driverName (e.g. "sqlite", "postgres",
// "mysql", "sqlserver") and ensures the sessions table exists.
func Open(driverName, dataSourceName string) (*Store, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenDefault opens the default pure-Go sqlite backend at path.
func OpenDefault(path string) (*Store, error) {
	return Open("sqlite", path)
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			command TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		)`)
	return err
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts rec, assigning a fresh ID if rec.ID is the zero UUID.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, source, command, exit_code, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Source, rec.Command, rec.ExitCode,
		rec.StartedAt.Format(time.RFC3339), rec.EndedAt.Format(time.RFC3339))
	if err != nil {
		return Record{}, fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Recent returns the most recent limit session records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, command, exit_code, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var id, started, ended string
		if err := rows.Scan(&id, &rec.Source, &rec.Command, &rec.ExitCode, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse session id %q: %w", id, err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339, started)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		rec.EndedAt, err = time.Parse(time.RFC3339, ended)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at %q: %w", ended, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
