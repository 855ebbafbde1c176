package mentor

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	values  map[string]int64
	expires map[string]time.Time
	err     error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]int64{}, expires: map[string]time.Time{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(v, 10), nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.values[key]++
	return redis.NewIntResult(f.values[key], nil)
}

func (f *fakeRedis) Decr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.values[key]--
	return redis.NewIntResult(f.values[key], nil)
}

func (f *fakeRedis) ExpireAt(_ context.Context, key string, tm time.Time) *redis.BoolCmd {
	f.expires[key] = tm
	return redis.NewBoolResult(true, nil)
}

func TestRedisQuota(t *testing.T) {
	fake := newFakeRedis()
	q := &RedisQuota{client: fake}
	ctx := context.Background()
	reset := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	n, err := q.Count(ctx, "learner:learner-1", "2025-03-10")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 for missing key, got %d, %v", n, err)
	}

	for i := 1; i <= 3; i++ {
		n, err := q.Increment(ctx, "learner:learner-1", "2025-03-10", reset)
		if err != nil || n != i {
			t.Fatalf("increment %d: got %d, %v", i, n, err)
		}
	}

	n, err = q.Count(ctx, "learner:learner-1", "2025-03-10")
	if err != nil || n != 3 {
		t.Errorf("expected 3, got %d, %v", n, err)
	}

	key := "skillsprint:mentor:learner:learner-1:2025-03-10"
	if _, ok := fake.values[key]; !ok {
		t.Errorf("expected key %q, have %v", key, fake.values)
	}
	if !fake.expires[key].Equal(reset) {
		t.Errorf("expected expiry at %v, got %v", reset, fake.expires[key])
	}

	if err := q.Release(ctx, "learner:learner-1", "2025-03-10"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if n, _ := q.Count(ctx, "learner:learner-1", "2025-03-10"); n != 2 {
		t.Errorf("expected 2 after release, got %d", n)
	}
}

func TestRedisQuota_Errors(t *testing.T) {
	fake := newFakeRedis()
	fake.err = errors.New("dial tcp: connection refused")
	q := &RedisQuota{client: fake}
	ctx := context.Background()

	if _, err := q.Count(ctx, "u", "2025-03-10"); err == nil {
		t.Error("expected count error")
	}
	if _, err := q.Increment(ctx, "u", "2025-03-10", time.Now()); err == nil {
		t.Error("expected increment error")
	}
	if err := q.Release(ctx, "u", "2025-03-10"); err == nil {
		t.Error("expected release error")
	}
}
