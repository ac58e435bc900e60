package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for rate-limit buckets.
	bucketKeyPrefix = "commune:ratelimit:"
)

// RedisStore implements Store using a redis sorted set per caller key,
// scored by request time. Unlike the memory store it coordinates limits
// across multiple service instances, at the cost of a network round trip
// per admission check.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed store. Bucket keys expire after
// ttl of inactivity; ttl should comfortably exceed the limiter window.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Append implements Store. The prune, record and count steps execute as a
// single pipelined transaction.
func (s *RedisStore) Append(ctx context.Context, key string, now, cutoff time.Time) (int, error) {
	k := bucketKeyPrefix + key

	// Members need a unique suffix: two requests can share a millisecond.
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(cutoff.UnixMilli(), 10))
	pipe.ZAdd(ctx, k, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: member,
	})
	card := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis rate-limit append for %q failed: %w", key, err)
	}

	return int(card.Val()), nil
}

// Close closes the underlying redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
