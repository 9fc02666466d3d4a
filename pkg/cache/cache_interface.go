package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer so the Redis implementation can be swapped
// (or left nil when Redis is unavailable; callers treat a miss and an error alike).
type Cache interface {
	// Get loads key into dest. found=false on a miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
