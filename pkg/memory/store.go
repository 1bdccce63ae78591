// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("memory: not found")

// SessionRef points at a persisted session.
type SessionRef struct {
	CandidateID string    `json:"candidate_id"`
	Path        string    `json:"path"`
	StartedAt   time.Time `json:"started_at"`
	FinalScore  float64   `json:"final_score"`
	Decision    string    `json:"decision"`
}

// Store is the persistence collaborator of the workflow engine.
// Candidate records are keyed by id; sessions are written once, keyed by
// candidate id plus timestamp. Failures propagate: the core never
// retries writes.
type Store interface {
	// LoadCandidate returns the candidate's longitudinal memory,
	// lazily creating defaults for unknown ids.
	LoadCandidate(ctx context.Context, id string) (*CandidateMemory, error)

	// SaveCandidate recomputes derived statistics and persists the
	// record. Saving is always explicit.
	SaveCandidate(ctx context.Context, mem *CandidateMemory) error

	// SaveSession persists a completed (or deliberately aborted)
	// session exactly once and returns its durable location.
	SaveSession(ctx context.Context, session *SessionMemory) (string, error)

	// ListSessions returns refs for a candidate's persisted sessions,
	// oldest first.
	ListSessions(ctx context.Context, candidateID string) ([]SessionRef, error)
}
