package lanekeep

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	backend "github.com/redis/go-redis/v9"
)

// SystemState is one user's lane keeping system settings.
type SystemState struct {
	Power        string `json:"power"`
	VibrationIdx int    `json:"vibration_idx"`
}

// Store persists per-user system state.
type Store interface {
	// Get returns the user's state and whether it existed.
	Get(ctx context.Context, userID string) (SystemState, bool, error)
	// Put saves the user's state.
	Put(ctx context.Context, userID string, state SystemState) error
}

// MemoryStore keeps system state in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]SystemState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]SystemState)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (SystemState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data[userID]
	return state, ok, nil
}

func (s *MemoryStore) Put(ctx context.Context, userID string, state SystemState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = state
	return nil
}

// RedisStore keeps system state in Redis so worker replicas share it.
type RedisStore struct {
	client *backend.Client
	prefix string
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *backend.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "parley:lk:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (SystemState, bool, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == backend.Nil {
			return SystemState{}, false, nil
		}
		return SystemState{}, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state SystemState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return SystemState{}, false, fmt.Errorf("failed to unmarshal system state: %w", err)
	}
	return state, true, nil
}

func (s *RedisStore) Put(ctx context.Context, userID string, state SystemState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal system state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}
