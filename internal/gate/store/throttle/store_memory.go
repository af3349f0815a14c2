package throttle

import (
	"context"
	"sync"
	"time"

	"opus/internal/gate/models"
)

type InMemoryStore struct {
	mu     sync.Mutex
	states map[string]*models.ThrottleState
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]*models.ThrottleState)}
}

func (s *InMemoryStore) Get(_ context.Context, author string) (*models.ThrottleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.states[author]
	if !exists {
		return nil, nil
	}
	return state.Clone(), nil
}

func (s *InMemoryStore) RecordCheckAtomic(_ context.Context, author string, similarityPercent float64, now time.Time) (bool, *models.ThrottleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.states[author]
	if !exists {
		state = models.NewThrottleState(author, now)
		s.states[author] = state
	}
	allowed := state.Apply(similarityPercent, now)
	return allowed, state.Clone(), nil
}
