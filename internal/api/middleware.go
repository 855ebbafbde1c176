package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/terra-clan/skillsprint/internal/models"
)

// Role switch headers. Browsers cannot set headers on a websocket
// handshake, so the role and user query parameters are accepted too.
const (
	RoleHeader = "X-SkillSprint-Role"
	UserHeader = "X-SkillSprint-User"

	DefaultLearnerID = "learner-1"
)

// IdentityMiddleware resolves the caller from the role switch headers.
// There is no authentication; a missing role defaults to learner-1.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := extractIdentity(r)
		slog.Debug("resolved identity", "role", id.Role, "id", id.ID)
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}

func extractIdentity(r *http.Request) *models.Identity {
	role := r.Header.Get(RoleHeader)
	if role == "" {
		role = r.URL.Query().Get("role")
	}
	user := strings.TrimSpace(r.Header.Get(UserHeader))
	if user == "" {
		user = strings.TrimSpace(r.URL.Query().Get("user"))
	}

	id := &models.Identity{Role: models.ParseRole(role), ID: user}
	if id.ID == "" && id.Role == models.RoleLearner {
		id.ID = DefaultLearnerID
	}
	return id
}

// requireActor writes 403 and returns false unless the caller acts as the
// given learner or company
func requireActor(w http.ResponseWriter, r *http.Request, role models.Role, id string) bool {
	caller := IdentityFromContext(r.Context())
	if caller.CanActAs(role, id) {
		return true
	}
	slog.Warn("permission denied",
		"caller", caller.Key(),
		"required_role", role,
		"target", id,
	)
	respondError(w, http.StatusForbidden, "forbidden", "caller cannot act as "+string(role)+" "+id)
	return false
}

// limiterTTL is how long a caller's bucket lives before it is rebuilt
const limiterTTL = 5 * time.Minute

// RateLimitMiddleware applies a token bucket per caller identity
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limiters := newLimiterSet(rps, burst, limiterTTL, time.Now)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := IdentityFromContext(r.Context()).Key()

			if !limiters.get(key).Allow() {
				slog.Warn("rate limited", "caller", key)
				w.Header().Set("Retry-After", "1")
				respondError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type cachedLimiter struct {
	limiter   *rate.Limiter
	expiresAt time.Time
}

// limiterSet holds one limiter per identity key. Identity keys come from
// client headers, so expired entries are swept at most once per ttl.
type limiterSet struct {
	limiters  sync.Map // identity key -> *cachedLimiter
	rps       float64
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep atomic.Int64 // unix nanos
}

func newLimiterSet(rps float64, burst int, ttl time.Duration, now func() time.Time) *limiterSet {
	l := &limiterSet{rps: rps, burst: burst, ttl: ttl, now: now}
	l.lastSweep.Store(now().UnixNano())
	return l
}

func (l *limiterSet) get(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)

	if limiter, ok := l.limiters.Load(key); ok {
		cached := limiter.(*cachedLimiter)
		if now.Before(cached.expiresAt) {
			return cached.limiter
		}
		// expired, need to create new
	}

	limiter := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters.Store(key, &cachedLimiter{
		limiter:   limiter,
		expiresAt: now.Add(l.ttl),
	})
	return limiter
}

// sweep deletes expired limiters; only one caller per ttl does the work
func (l *limiterSet) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.ttl) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	removed := 0
	l.limiters.Range(func(key, value any) bool {
		if !now.Before(value.(*cachedLimiter).expiresAt) {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		slog.Debug("swept expired rate limiters", "removed", removed)
	}
}

func (l *limiterSet) size() int {
	n := 0
	l.limiters.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
