// Package storage keeps completed-session results for the lifetime of the
// process.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// Compile-time interface check.
var _ domain.ResultStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory result store. Safe for concurrent access.
// Nothing is written to disk.
type MemoryStore struct {
	mu      sync.RWMutex
	results []domain.Result
	byID    map[string]int
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory result store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
		log:  log,
	}
}

// Record appends a result. Each session ID may be recorded once.
func (s *MemoryStore) Record(ctx context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.SessionID == "" {
		return fmt.Errorf("recording result: empty session id")
	}
	if _, ok := s.byID[result.SessionID]; ok {
		return fmt.Errorf("recording result: session %s already recorded", result.SessionID)
	}

	result.Challenges = append([]domain.Challenge(nil), result.Challenges...)
	s.byID[result.SessionID] = len(s.results)
	s.results = append(s.results, result)

	s.log.Debug("recorded result %s (recipe=%s, earned=%d)", result.SessionID, result.RecipeName, result.Earned)
	return nil
}

// List returns every recorded result, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Result, len(s.results))
	for i, r := range s.results {
		r.Challenges = append([]domain.Challenge(nil), r.Challenges...)
		out[i] = r
	}
	s.log.Debug("listing results, count=%d", len(out))
	return out, nil
}

// Get returns the result recorded for a session.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[sessionID]
	if !ok {
		s.log.Debug("result not found: %s", sessionID)
		return nil, domain.ErrNotFound
	}
	r := s.results[idx]
	r.Challenges = append([]domain.Challenge(nil), r.Challenges...)
	return &r, nil
}

// Best returns the highest-earning result for a recipe.
func (s *MemoryStore) Best(ctx context.Context, recipeName string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.Result
	for i := range s.results {
		r := s.results[i]
		if r.RecipeName != recipeName {
			continue
		}
		if best == nil || r.Earned > best.Earned {
			cp := r
			best = &cp
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	best.Challenges = append([]domain.Challenge(nil), best.Challenges...)
	return best, nil
}
