// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package source

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// MemorySource holds responses in process memory. Used for tests and for
// running the dashboard against a seeded batch.
type MemorySource struct {
	mu      sync.RWMutex
	records []models.Record
	err     error
}

// NewMemorySource creates a memory source seeded with records
func NewMemorySource(records []models.Record) *MemorySource {
	s := &MemorySource{}
	for _, rec := range records {
		s.records = append(s.records, rec.Clone())
	}
	return s
}

// Fetch returns a copy of the stored batch
func (s *MemorySource) Fetch(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	out := make([]models.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Submit appends a copy of rec
func (s *MemorySource) Submit(ctx context.Context, rec models.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}

	if rec == nil {
		rec = models.Record{}
	}
	s.records = append(s.records, rec.Clone())
	return uuid.NewString(), nil
}

// SetError makes every later Fetch and Submit fail with err; nil clears it
func (s *MemorySource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Len returns the number of stored responses
func (s *MemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
