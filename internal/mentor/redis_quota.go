package mentor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "skillsprint:mentor:"

// redisCounter is the subset of the go-redis client used by RedisQuota
type redisCounter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Decr(ctx context.Context, key string) *redis.IntCmd
	ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd
}

// RedisQuota keeps daily counters in Redis so every API replica shares them.
// Keys expire at the next local midnight.
type RedisQuota struct {
	client redisCounter
}

// NewRedisQuota creates a quota store over a go-redis client
func NewRedisQuota(client redis.Cmdable) *RedisQuota {
	return &RedisQuota{client: client}
}

func redisKey(callerID, day string) string {
	return fmt.Sprintf("%s%s:%s", redisKeyPrefix, callerID, day)
}

// Count returns the calls recorded for caller on day
func (q *RedisQuota) Count(ctx context.Context, callerID, day string) (int, error) {
	n, err := q.client.Get(ctx, redisKey(callerID, day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read mentor quota: %w", err)
	}
	return n, nil
}

// Increment records one call and sets the key to expire at resetAt
func (q *RedisQuota) Increment(ctx context.Context, callerID, day string, resetAt time.Time) (int, error) {
	key := redisKey(callerID, day)

	n, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment mentor quota: %w", err)
	}

	if n == 1 {
		if err := q.client.ExpireAt(ctx, key, resetAt).Err(); err != nil {
			return int(n), fmt.Errorf("failed to set mentor quota expiry: %w", err)
		}
	}

	return int(n), nil
}

// Release undoes one Increment for caller on day
func (q *RedisQuota) Release(ctx context.Context, callerID, day string) error {
	if err := q.client.Decr(ctx, redisKey(callerID, day)).Err(); err != nil {
		return fmt.Errorf("failed to release mentor quota: %w", err)
	}
	return nil
}
