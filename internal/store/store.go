// Package store persists match snapshots in SQLite. A snapshot is the
// full MatchState document including the play sequence, so a reload
// followed by one simulation pass restores the derived effect state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"revreb/internal/game"
)

// ErrNotFound is returned when no snapshot exists for a match id.
var ErrNotFound = errors.New("match snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id         TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	phase      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the snapshot database at path.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	// modernc sqlite serializes writes itself; a single conn avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save upserts a match snapshot.
func (s *Store) Save(ctx context.Context, m *game.MatchState) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match %s: %w", m.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, state, phase, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state=excluded.state,
			phase=excluded.phase, updated_at=excluded.updated_at`,
		m.ID, string(doc), m.Phase.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

// Load reads a match snapshot. The caller must run the effect simulator
// on the result before using derived state.
func (s *Store) Load(ctx context.Context, id string) (*game.MatchState, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM matches WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	var m game.MatchState
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", id, err)
	}
	return &m, nil
}

// Delete removes a match snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	return err
}

// List returns the ids of all stored matches, most recently saved first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM matches ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
