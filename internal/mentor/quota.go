package mentor

import (
	"context"
	"sync"
	"time"
)

// QuotaStore counts successful suggestion calls per caller per day.
// day is the caller's local calendar date as YYYY-MM-DD; resetAt is the
// following local midnight, after which the counter may be discarded.
// Increment reserves a call atomically; Release gives back a reservation
// that did not end in a successful generation.
type QuotaStore interface {
	Count(ctx context.Context, callerID, day string) (int, error)
	Increment(ctx context.Context, callerID, day string, resetAt time.Time) (int, error)
	Release(ctx context.Context, callerID, day string) error
}

type quotaKey struct {
	caller string
	day    string
}

// MemoryQuota is a process-local QuotaStore
type MemoryQuota struct {
	mu     sync.Mutex
	counts map[quotaKey]int
}

// NewMemoryQuota creates an empty in-memory quota counter
func NewMemoryQuota() *MemoryQuota {
	return &MemoryQuota{
		counts: make(map[quotaKey]int),
	}
}

// Count returns the calls recorded for caller on day
func (q *MemoryQuota) Count(_ context.Context, callerID, day string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.counts[quotaKey{callerID, day}], nil
}

// Increment records one call and drops counters from earlier days
func (q *MemoryQuota) Increment(_ context.Context, callerID, day string, _ time.Time) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for k := range q.counts {
		if k.caller == callerID && k.day != day {
			delete(q.counts, k)
		}
	}

	k := quotaKey{callerID, day}
	q.counts[k]++
	return q.counts[k], nil
}

// Release undoes one Increment for caller on day
func (q *MemoryQuota) Release(_ context.Context, callerID, day string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	k := quotaKey{callerID, day}
	switch n := q.counts[k]; {
	case n > 1:
		q.counts[k] = n - 1
	case n == 1:
		delete(q.counts, k)
	}
	return nil
}
