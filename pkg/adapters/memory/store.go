package memory

import (
	"context"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use. Sessions live for the process lifetime; idle
// eviction is the redis store's job.
type Store struct {
	data map[string]*domain.State
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.State),
	}
}

// clone deep-copies a state so callers and the store never share slices.
func clone(state *domain.State) *domain.State {
	copied := *state
	copied.TurnText = make([]string, len(state.TurnText))
	copy(copied.TurnText, state.TurnText)
	copied.Decision.Slots = make([]string, len(state.Decision.Slots))
	copy(copied.Decision.Slots, state.Decision.Slots)
	return &copied
}

// Save persists the state in memory.
func (s *Store) Save(ctx context.Context, userID string, state *domain.State) error {
	copied := clone(state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = copied
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, userID string) (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate store state through the pointer
	return clone(state), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
