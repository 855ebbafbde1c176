package storage

import (
	"context"
	"time"
)

// QuotaRepository persists daily mentor suggestion counters
type QuotaRepository interface {
	Count(ctx context.Context, callerID, day string) (int, error)
	Increment(ctx context.Context, callerID, day string, resetAt time.Time) (int, error)
	Release(ctx context.Context, callerID, day string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
