package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/httpx"
)

type fakeProvider struct {
	name  string
	items []*evidence.Item
	err   error
	delay time.Duration
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func newTestRunContext() *evidence.RunContext {
	return evidence.NewRunContext(evidence.RunRequest{Topic: "test topic"}, evidence.IntentGeneric, 5*time.Second)
}

func TestFanOutAggregatesAcrossProviders(t *testing.T) {
	p1 := &fakeProvider{name: "a", items: []*evidence.Item{{ID: "1"}}}
	p2 := &fakeProvider{name: "b", items: []*evidence.Item{{ID: "2"}, {ID: "3"}}}
	s := New([]Provider{p1, p2}, nil)

	out := s.FanOut(context.Background(), newTestRunContext(), []string{"a", "b"})
	if len(out) != 3 {
		t.Fatalf("expected 3 items across both providers, got %d", len(out))
	}
}

func TestFanOutToleratesOneProviderFailing(t *testing.T) {
	p1 := &fakeProvider{name: "ok", items: []*evidence.Item{{ID: "1"}}}
	p2 := &fakeProvider{name: "bad", err: errors.New("boom")}
	s := New([]Provider{p1, p2}, nil)

	rc := newTestRunContext()
	out := s.FanOut(context.Background(), rc, []string{"ok", "bad"})
	if len(out) != 1 {
		t.Fatalf("expected the surviving provider's item despite the other failing, got %d", len(out))
	}
	_, errs, _ := rc.CountersFor("bad").Snapshot()
	if errs != 1 {
		t.Fatalf("expected the failing provider's error counter to increment, got %d", errs)
	}
}

func TestFanOutSkipsUnknownProviderName(t *testing.T) {
	p1 := &fakeProvider{name: "a", items: []*evidence.Item{{ID: "1"}}}
	s := New([]Provider{p1}, nil)
	out := s.FanOut(context.Background(), newTestRunContext(), []string{"a", "does-not-exist"})
	if len(out) != 1 {
		t.Fatalf("expected only the known provider's item, got %d", len(out))
	}
}

func TestFanOutSkipsProviderWithOpenCircuit(t *testing.T) {
	cb := httpx.NewCircuitBreaker(1, time.Minute)
	cb.RecordFailure("flaky")
	p := &fakeProvider{name: "flaky", items: []*evidence.Item{{ID: "1"}}}
	s := New([]Provider{p}, cb)
	out := s.FanOut(context.Background(), newTestRunContext(), []string{"flaky"})
	if len(out) != 0 {
		t.Fatal("expected the scheduler to skip a provider whose circuit is open")
	}
}

func TestFanOutRespectsRunContextDeadline(t *testing.T) {
	p := &fakeProvider{name: "slow", delay: 200 * time.Millisecond, items: []*evidence.Item{{ID: "1"}}}
	s := New([]Provider{p}, nil)
	rc := evidence.NewRunContext(evidence.RunRequest{Topic: "x"}, evidence.IntentGeneric, 20*time.Millisecond)
	out := s.FanOut(context.Background(), rc, []string{"slow"})
	if len(out) != 0 {
		t.Fatal("expected a provider exceeding the run's remaining budget to be cancelled before returning items")
	}
}
