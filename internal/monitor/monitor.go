package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/skillsprint/internal/models"
	"github.com/terra-clan/skillsprint/internal/store"
)

// RiskSource classifies enrollments and receives at-risk notifications
type RiskSource interface {
	EnrollmentRisks() []models.EnrollmentWithRisk
	Publish(ev store.Event)
}

// Purger removes expired records from a backing store
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Monitor periodically classifies every active enrollment and publishes
// enrollment.at_risk when one enters HIGH risk
type Monitor struct {
	source   RiskSource
	purger   Purger
	interval time.Duration
	now      func() time.Time

	// last risk seen per enrollment; only touched by the run goroutine
	last map[string]models.RiskLevel
}

// Option configures a Monitor
type Option func(*Monitor)

// WithPurger purges expired quota rows on every tick
func WithPurger(p Purger) Option {
	return func(m *Monitor) { m.purger = p }
}

// WithClock overrides the time source used for purging
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a new risk monitor
func New(source RiskSource, interval time.Duration, opts ...Option) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}

	m := &Monitor{
		source:   source,
		interval: interval,
		now:      time.Now,
		last:     make(map[string]models.RiskLevel),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run blocks until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("risk monitor started", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run immediately on start
	m.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("risk monitor stopped")
			return nil
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick runs one classification cycle and returns the number of enrollments
// that newly entered HIGH risk
func (m *Monitor) Tick(ctx context.Context) int {
	slog.Debug("running risk cycle")

	flagged := 0
	seen := make(map[string]struct{})

	for _, er := range m.source.EnrollmentRisks() {
		if er.Status != models.EnrollmentActive {
			continue
		}
		seen[er.ID] = struct{}{}

		prev := m.last[er.ID]
		m.last[er.ID] = er.Risk
		if er.Risk != models.RiskHigh || prev == models.RiskHigh {
			continue
		}

		flagged++
		slog.Info("enrollment at risk",
			"enrollment_id", er.ID,
			"learner_id", er.LearnerID,
			"company_id", er.CompanyID,
			"stage", er.StageNum,
			"progress_pct", er.ProgressPct,
		)
		m.source.Publish(store.Event{
			Type:         store.EventEnrollmentAtRisk,
			LearnerID:    er.LearnerID,
			CompanyID:    er.CompanyID,
			EnrollmentID: er.ID,
			Payload:      er,
		})
	}

	for id := range m.last {
		if _, ok := seen[id]; !ok {
			delete(m.last, id)
		}
	}

	if m.purger != nil {
		n, err := m.purger.PurgeExpired(ctx, m.now())
		if err != nil {
			slog.Error("failed to purge expired quota", "error", err)
		} else if n > 0 {
			slog.Info("purged expired quota rows", "count", n)
		}
	}

	return flagged
}
