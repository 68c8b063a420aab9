package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// SessionStore defines the interface for persisting dialogue session state.
// Sessions are keyed by user ID.
type SessionStore interface {
	// Save persists the state for a given user ID.
	Save(ctx context.Context, userID string, state *domain.State) error

	// Load retrieves the state for a given user ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, userID string) (*domain.State, error)

	// Delete removes the state for a given user ID.
	Delete(ctx context.Context, userID string) error

	// List returns the IDs of all active sessions.
	List(ctx context.Context) ([]string, error)
}
