package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeProvider struct {
	BaseProvider
	healthErr error
	closeErr  error
	closed    bool
}

func newFakeProvider(kind string, healthErr error) *fakeProvider {
	return &fakeProvider{BaseProvider: BaseProvider{serviceType: kind}, healthErr: healthErr}
}

func (p *fakeProvider) HealthCheck(ctx context.Context) error { return p.healthErr }

func (p *fakeProvider) Close() error {
	p.closed = true
	return p.closeErr
}

func TestRegistry_RegisterAndList(t *testing.T) {
	r := NewRegistry()
	r.Register("redis", newFakeProvider("redis", nil))
	r.Register("postgres", newFakeProvider("postgres", nil))

	if got := r.List(); !reflect.DeepEqual(got, []string{"postgres", "redis"}) {
		t.Errorf("unexpected providers %v", got)
	}

	// re-registering a name replaces the provider
	r.Register("redis", newFakeProvider("redis", errors.New("down")))
	if got := r.List(); len(got) != 2 {
		t.Errorf("expected 2 providers after replace, got %v", got)
	}
	if err := r.HealthCheckAll(context.Background())["redis"]; err == nil {
		t.Error("expected the replacement redis provider to be checked")
	}
}

func TestRegistry_HealthCheckAll(t *testing.T) {
	down := errors.New("connection refused")

	r := NewRegistry()
	r.Register("redis", newFakeProvider("redis", nil))
	r.Register("postgres", newFakeProvider("postgres", down))

	results := r.HealthCheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["redis"] != nil {
		t.Errorf("expected redis healthy, got %v", results["redis"])
	}
	if !errors.Is(results["postgres"], down) {
		t.Errorf("expected postgres error, got %v", results["postgres"])
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	a := newFakeProvider("redis", nil)
	b := newFakeProvider("postgres", nil)
	b.closeErr = errors.New("already closed")

	r := NewRegistry()
	r.Register("redis", a)
	r.Register("postgres", b)

	if err := r.CloseAll(); err == nil {
		t.Error("expected close error to be reported")
	}
	if !a.closed || !b.closed {
		t.Error("expected every provider to be closed")
	}
	if len(r.List()) != 0 {
		t.Error("expected registry to be empty after CloseAll")
	}
}
