package shared

import (
	"context"
	"time"
)

// IdempotencyStore is a fast-path cache of already-committed idempotency keys.
// It is an optimization only: the database uniqueness constraint on the
// payment's idempotency key remains the authority, so a cache miss (or a cold
// cache after restart) is always safe.
type IdempotencyStore interface {
	// MarkProcessed records a key with a TTL. Returns true if the key was
	// newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has already been recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases store resources.
	Close() error
}

// IdempotencyKeyMinLen and IdempotencyKeyMaxLen bound caller-supplied keys.
const (
	IdempotencyKeyMinLen = 8
	IdempotencyKeyMaxLen = 64
)

// ValidIdempotencyKey reports whether a caller-supplied key is acceptable.
func ValidIdempotencyKey(key string) bool {
	return len(key) >= IdempotencyKeyMinLen && len(key) <= IdempotencyKeyMaxLen
}
