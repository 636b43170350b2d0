package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

type RedisMetricsCache struct {
	client rueidis.Client
	prefix string
}

func NewRedisMetricsCache(client rueidis.Client, prefix string) *RedisMetricsCache {
	return &RedisMetricsCache{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisMetricsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := r.client.B().Get().Key(r.prefix + ":" + key).Build()
	payload, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return payload, true, nil
}

func (r *RedisMetricsCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	cmd := r.client.B().Set().
		Key(r.prefix + ":" + key).
		Value(string(payload)).
		Ex(ttl).
		Build()
	return r.client.Do(ctx, cmd).Error()
}
