package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps events per author. Used in tests and single-node dev
// deployments where no durable audit trail is required.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Author] = append(s.events[event.Author], event)
	return nil
}

func (s *InMemoryStore) ListByAuthor(_ context.Context, author string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[author]...), nil
}

// ListAll returns every stored event across authors.
func (s *InMemoryStore) ListAll(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []Event
	for _, authorEvents := range s.events {
		all = append(all, authorEvents...)
	}
	return all, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]Event)
}
