// Package cache defines the port interface for in-process caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache with per-entry TTL. The inbound webhook path
// uses it to avoid a database round trip for the agent token check on every
// call.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
