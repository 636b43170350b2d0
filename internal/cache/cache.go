package cache

import (
	"context"
	"time"
)

// MetricsCache stores serialized metrics snapshots with a TTL. Snapshot
// staleness is bounded by the TTL; workflow writes never wait on the cache.
type MetricsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
