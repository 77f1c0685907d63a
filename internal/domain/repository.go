package domain

import "context"

// MessageRepository defines the persistence operations the outbox worker
// needs. The claim must be safe to run from multiple workers concurrently.
type MessageRepository interface {
	ClaimQueued(ctx context.Context) (*Message, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
