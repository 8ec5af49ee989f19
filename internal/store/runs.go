// Package store keeps the cross-request state behind the HTTP gateway: the
// current-dataset slot and a registry of completed pipeline runs keyed by
// run id, so past results stay addressable instead of living only in a
// shared file name.
package store

import (
	"sync"
	"time"

	"insight-engine-go/internal/pipeline"
)

type RunStore struct {
	mu      sync.RWMutex
	current string
	runs    map[string]Record
}

// Record is one completed pipeline run.
type Record struct {
	Bundle    pipeline.Bundle `json:"bundle"`
	StartedAt time.Time       `json:"started_at"`
}

func New() *RunStore {
	return &RunStore{runs: map[string]Record{}}
}

// SetCurrent records the path of the most recently uploaded or ingested
// dataset.
func (s *RunStore) SetCurrent(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = path
}

// Current returns the current-dataset path, empty when nothing has been
// ingested yet.
func (s *RunStore) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save registers a completed run under its run id.
func (s *RunStore) Save(b pipeline.Bundle, startedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[b.RunID] = Record{Bundle: b, StartedAt: startedAt}
}

// Get looks up a past run by id.
func (s *RunStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[id]
	return rec, ok
}
