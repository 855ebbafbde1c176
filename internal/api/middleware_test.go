package api

import (
	"fmt"
	"testing"
	"time"
)

func TestLimiterSet_ReusesLiveLimiter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	set := newLimiterSet(1, 1, time.Minute, func() time.Time { return now })

	a := set.get("learner:learner-1")
	if b := set.get("learner:learner-1"); a != b {
		t.Error("expected the same limiter within the ttl")
	}

	now = now.Add(time.Minute)
	if c := set.get("learner:learner-1"); c == a {
		t.Error("expected a fresh limiter after the ttl")
	}
}

func TestLimiterSet_SweepsExpiredKeys(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	set := newLimiterSet(1, 1, time.Minute, func() time.Time { return now })

	for i := 0; i < 100; i++ {
		set.get(fmt.Sprintf("learner:made-up-%d", i))
	}
	if n := set.size(); n != 100 {
		t.Fatalf("expected 100 limiters, got %d", n)
	}

	// before the ttl nothing is swept
	now = now.Add(30 * time.Second)
	set.get("company:aws")
	if n := set.size(); n != 101 {
		t.Errorf("expected no sweep before the ttl, got %d limiters", n)
	}

	// the next call after the ttl drops every expired entry
	now = now.Add(40 * time.Second)
	set.get("learner:learner-1")
	if n := set.size(); n != 2 {
		t.Errorf("expected only live limiters to remain, got %d", n)
	}
}
