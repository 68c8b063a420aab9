package ports

import "context"

// ServiceClient is the RPC contract exposed by every collaborator service.
// Infer is the hot path; Create and Learn may be no-ops.
type ServiceClient interface {
	// Create provisions caller-specific resources on the service.
	Create(ctx context.Context, userID string, spec []string) error

	// Learn ingests out-of-band training data.
	Learn(ctx context.Context, userID string, knowledge []string) error

	// Infer sends the conversation log (oldest first) and returns the single
	// newest fragment to append to it. Replies carry the service's
	// provenance tag prefix.
	Infer(ctx context.Context, userID string, turns []string) (string, error)
}
