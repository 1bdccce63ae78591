// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore implements Store with JSON files: one per candidate under
// candidates/, one write-once file per session under sessions/.
// Suitable for simple persistence without external dependencies.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
}

// NewFileStore creates a file-backed store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, sub := range []string{"candidates", "sessions", "reports"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// ReportsDir returns the directory where rendered reports belong.
func (f *FileStore) ReportsDir() string {
	return filepath.Join(f.baseDir, "reports")
}

func (f *FileStore) candidateFile(id string) string {
	// Base() sanitizes the id to prevent path traversal.
	return filepath.Join(f.baseDir, "candidates", filepath.Base(id)+".json")
}

// LoadCandidate loads the candidate record, merging defaults into any
// missing fields. Unknown ids and unreadable records yield defaults; a
// real I/O failure propagates.
func (f *FileStore) LoadCandidate(_ context.Context, id string) (*CandidateMemory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.candidateFile(id))
	if err != nil {
		if os.IsNotExist(err) {
			return NewCandidateMemory(id), nil
		}
		return nil, fmt.Errorf("failed to read candidate record: %w", err)
	}

	var mem CandidateMemory
	if err := json.Unmarshal(data, &mem); err != nil {
		// Corrupt record: start over from defaults rather than brick
		// the candidate id.
		return NewCandidateMemory(id), nil
	}
	mem.mergeDefaults(id)
	return &mem, nil
}

// SaveCandidate recomputes statistics and persists the record.
func (f *FileStore) SaveCandidate(_ context.Context, mem *CandidateMemory) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	mem.RecomputeStatistics()
	mem.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal candidate record: %w", err)
	}
	return os.WriteFile(f.candidateFile(mem.CandidateID), data, 0o644)
}

// SaveSession writes the session record once and returns its path.
func (f *FileStore) SaveSession(_ context.Context, session *SessionMemory) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ts := session.StartedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	name := fmt.Sprintf("%s_%s.json", filepath.Base(session.CandidateID), ts.Format("20060102_150405"))
	path := filepath.Join(f.baseDir, "sessions", name)

	data, err := json.MarshalIndent(session.record(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write session record: %w", err)
	}
	return path, nil
}

// ListSessions scans the sessions directory for a candidate's records.
func (f *FileStore) ListSessions(_ context.Context, candidateID string) ([]SessionRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Join(f.baseDir, "sessions")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	prefix := filepath.Base(candidateID) + "_"
	var refs []SessionRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".json" || len(name) <= len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var rec sessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue // skip unreadable records, they are diagnosable on disk
		}
		ref := SessionRef{
			CandidateID: rec.CandidateID,
			Path:        path,
			StartedAt:   rec.StartedAt,
		}
		if rec.FinalEvaluation != nil {
			ref.FinalScore = rec.FinalEvaluation.FinalScore
			ref.Decision = rec.FinalEvaluation.Decision
		}
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].StartedAt.Before(refs[j].StartedAt) })
	return refs, nil
}
