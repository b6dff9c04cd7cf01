// Package store keeps a history of solved cubes in PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Record is one solve attempt.
type Record struct {
	ID           int64
	Cube         string
	Solution     string
	Moves        int
	ScanDuration time.Duration
	Error        string
	SolvedAt     time.Time
}

// Store wraps a single connection; calls are serialized.
type Store struct {
	mu   sync.Mutex
	conn *pgx.Conn
}

// New connects and ensures the schema exists.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

func initSchema(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS solves (
			id BIGSERIAL PRIMARY KEY,
			cube CHAR(54) NOT NULL,
			solution TEXT NOT NULL DEFAULT '',
			moves INT NOT NULL DEFAULT 0,
			scan_ms BIGINT NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			solved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS solves_solved_at_idx ON solves (solved_at DESC);
	`)
	return err
}

// Close terminates the connection.
func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Close(ctx)
}

// RecordSolve inserts r and returns its id. A zero SolvedAt means now.
func (s *Store) RecordSolve(ctx context.Context, r Record) (int64, error) {
	if len(r.Cube) != 54 {
		return 0, fmt.Errorf("store: cube string has %d facelets", len(r.Cube))
	}
	if r.SolvedAt.IsZero() {
		r.SolvedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO solves (cube, solution, moves, scan_ms, error, solved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.Cube, r.Solution, r.Moves, r.ScanDuration.Milliseconds(), r.Error, r.SolvedAt).Scan(&id)
	return id, err
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.conn.Query(ctx, `
		SELECT id, cube, solution, moves, scan_ms, error, solved_at
		FROM solves ORDER BY solved_at DESC, id DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		var scanMs int64
		if err := rows.Scan(&r.ID, &r.Cube, &r.Solution, &r.Moves, &scanMs, &r.Error, &r.SolvedAt); err != nil {
			return nil, err
		}
		r.ScanDuration = time.Duration(scanMs) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// Last returns the newest record, or ErrNoHistory.
func (s *Store) Last(ctx context.Context) (Record, error) {
	recs, err := s.Recent(ctx, 1)
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrNoHistory
	}
	return recs[0], nil
}

// ErrNoHistory is returned by Last on an empty table.
var ErrNoHistory = errors.New("store: no solves recorded")

// Reset drops the history table.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(ctx, `DROP TABLE IF EXISTS solves CASCADE;`)
	return err
}

// ConnString resolves the connection string: an explicit value wins, then
// DATABASE_URL, then the POSTGRES_* variables. It returns "" when nothing is
// configured, which disables history.
func ConnString(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"), host, port, os.Getenv("POSTGRES_DB"))
}
