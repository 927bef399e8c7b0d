package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys so that a replayed
// request is detected instead of being executed twice
type IdempotencyStore interface {
	// Claim reserves the key for ttl.
	// Returns true if the key was newly claimed, false if it is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a claimed key so a failed request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
