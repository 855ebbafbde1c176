package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultDailyLimit is the number of successful suggestions per caller per day
const DefaultDailyLimit = 5

var (
	ErrUnavailable   = errors.New("text generation is not configured")
	ErrQuotaExceeded = errors.New("daily suggestion limit reached")
	ErrUnknownKind   = errors.New("unknown suggestion kind")
)

// Generator turns a prompt into text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Suggestion is the outcome of one Suggest call. When Fallback is set,
// Content holds the static text for the kind and Error says why.
type Suggestion struct {
	Kind      Kind   `json:"kind"`
	Success   bool   `json:"success"`
	Content   string `json:"content"`
	Error     string `json:"error,omitempty"`
	Fallback  bool   `json:"fallback"`
	Remaining int    `json:"remaining"`
}

// Service rate-limits a Generator per caller per local calendar day
type Service struct {
	generator Generator
	quota     QuotaStore
	limit     int
	now       func() time.Time
	loc       *time.Location
}

// Option configures a Service
type Option func(*Service)

// WithDailyLimit overrides DefaultDailyLimit
func WithDailyLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithClock sets the time source used to derive the quota day
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the time zone whose midnight resets the quota
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a mentor service. generator may be nil, in which case
// every call degrades to the fallback text. A nil quota uses MemoryQuota.
func NewService(generator Generator, quota QuotaStore, opts ...Option) *Service {
	if quota == nil {
		quota = NewMemoryQuota()
	}
	s := &Service{
		generator: generator,
		quota:     quota,
		limit:     DefaultDailyLimit,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether a generator is configured
func (s *Service) Available() bool {
	return s.generator != nil
}

// Limit returns the per-day call limit
func (s *Service) Limit() int {
	return s.limit
}

// day returns the quota key date and the next local midnight
func (s *Service) day() (string, time.Time) {
	now := s.now().In(s.loc)
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, s.loc)
	return now.Format("2006-01-02"), midnight
}

// Remaining returns how many calls the caller has left today
func (s *Service) Remaining(ctx context.Context, callerID string) (int, error) {
	day, _ := s.day()
	n, err := s.quota.Count(ctx, callerID, day)
	if err != nil {
		return 0, err
	}
	return max(0, s.limit-n), nil
}

// Suggest generates text for kind. It never fails outright: when the
// generator is missing, the quota is spent, or generation errors, the
// suggestion carries the static fallback instead. Only successful
// generations count against the quota.
func (s *Service) Suggest(ctx context.Context, callerID string, kind Kind, req Request) Suggestion {
	prompt, err := BuildPrompt(kind, req)
	if err != nil {
		return s.fallback(kind, err, 0)
	}

	if s.generator == nil {
		return s.fallback(kind, ErrUnavailable, s.remainingOrZero(ctx, callerID))
	}

	// Reserve a slot before generating so concurrent calls cannot
	// overrun the limit; failed generations give theirs back.
	day, resetAt := s.day()
	n, err := s.quota.Increment(ctx, callerID, day, resetAt)
	if err != nil {
		slog.Error("failed to reserve mentor call", "error", err, "caller", callerID)
		return s.fallback(kind, fmt.Errorf("quota unavailable: %w", err), 0)
	}
	if n > s.limit {
		s.release(ctx, callerID, day)
		return s.fallback(kind, fmt.Errorf("%w: you have %d calls per day, try again tomorrow", ErrQuotaExceeded, s.limit), 0)
	}

	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("mentor generation failed", "error", err, "caller", callerID, "kind", kind)
		s.release(ctx, callerID, day)
		return s.fallback(kind, err, s.limit-n+1)
	}

	slog.Info("mentor suggestion generated", "caller", callerID, "kind", kind, "used", n)

	return Suggestion{
		Kind:      kind,
		Success:   true,
		Content:   content,
		Remaining: max(0, s.limit-n),
	}
}

// release ignores cancellation of ctx
func (s *Service) release(ctx context.Context, callerID, day string) {
	if err := s.quota.Release(context.WithoutCancel(ctx), callerID, day); err != nil {
		slog.Error("failed to release mentor call", "error", err, "caller", callerID)
	}
}

func (s *Service) remainingOrZero(ctx context.Context, callerID string) int {
	n, err := s.Remaining(ctx, callerID)
	if err != nil {
		return 0
	}
	return n
}

func (s *Service) fallback(kind Kind, err error, remaining int) Suggestion {
	return Suggestion{
		Kind:      kind,
		Success:   false,
		Content:   Fallback(kind),
		Error:     err.Error(),
		Fallback:  true,
		Remaining: remaining,
	}
}
