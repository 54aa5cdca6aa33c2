package port

import (
	"context"
	"time"
)

// CachePort stores encoded resolution results with a per-entry lifetime.
type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes one entry and reports whether it existed.
	Delete(ctx context.Context, key string) bool
	// DeletePrefix removes every entry whose key starts with prefix and returns how many went.
	DeletePrefix(ctx context.Context, prefix string) int
}
