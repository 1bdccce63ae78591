// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// SessionArchive indexes persisted sessions in SQLite so history
// inspection does not have to scan the sessions directory. The JSON
// session file stays the durable record; the archive is an index.
type SessionArchive struct {
	db *sql.DB
}

// OpenSessionArchive opens (or creates) the archive database.
func OpenSessionArchive(path string) (*SessionArchive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	a := &SessionArchive{db: db}
	if err := a.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// NewSessionArchive wraps an existing database handle.
func NewSessionArchive(db *sql.DB) (*SessionArchive, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	a := &SessionArchive{db: db}
	if err := a.ensureSchema(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *SessionArchive) ensureSchema() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id   TEXT PRIMARY KEY,
			candidate_id TEXT NOT NULL,
			path         TEXT NOT NULL,
			started_at   TIMESTAMP NOT NULL,
			final_score  REAL,
			decision     TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_candidate
			ON sessions (candidate_id, started_at);
	`)
	return err
}

// Record stores one index row for a persisted session.
func (a *SessionArchive) Record(ctx context.Context, session *SessionMemory, path string) error {
	score := 0.0
	decision := ""
	if session.FinalEvaluation != nil {
		score = session.FinalEvaluation.FinalScore
		decision = session.FinalEvaluation.Decision
	}
	_, err := a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (session_id, candidate_id, path, started_at, final_score, decision)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.ID, session.CandidateID, path, session.StartedAt.UTC(), score, decision)
	return err
}

// List returns a candidate's sessions, oldest first.
func (a *SessionArchive) List(ctx context.Context, candidateID string, limit int) ([]SessionRef, error) {
	query := `
		SELECT candidate_id, path, started_at, final_score, decision
		FROM sessions
		WHERE candidate_id = ?
		ORDER BY started_at ASC
	`
	args := []any{candidateID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []SessionRef
	for rows.Next() {
		var (
			ref     SessionRef
			started time.Time
			score   sql.NullFloat64
			dec     sql.NullString
		)
		if err := rows.Scan(&ref.CandidateID, &ref.Path, &started, &score, &dec); err != nil {
			return nil, err
		}
		ref.StartedAt = started
		if score.Valid {
			ref.FinalScore = score.Float64
		}
		if dec.Valid {
			ref.Decision = dec.String
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Close releases the underlying database handle.
func (a *SessionArchive) Close() error {
	return a.db.Close()
}
