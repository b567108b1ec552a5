// Package scheduler fans a topic out to every provider in a run's routed
// tier set under bounded parallelism and a wall-clock budget, per
// spec.md §4.4.
package scheduler

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/httpx"
	"github.com/corrobor8/eatc/internal/progress"
)

// Provider is the capability every adapter in internal/providers exposes.
// Struct composition over inheritance (Design Note §9): an adapter is a
// struct with a Search method and a Name, not a subclass of a shared base.
type Provider interface {
	Name() string
	Search(ctx context.Context, topic string) ([]*evidence.Item, error)
}

// defaultMaxConcurrency bounds simultaneous in-flight provider calls
// regardless of how many providers a tier set names, so one enormous
// provider list cannot overwhelm the local network stack.
const defaultMaxConcurrency = 8

// defaultCallTimeout is the per-provider call ceiling fed through
// RunContext.CallTimeout before it is ever handed to a provider's Search.
const defaultCallTimeout = 12 * time.Second

// Scheduler fans out provider calls under a semaphore-bounded errgroup,
// consulting the shared circuit breaker before issuing each call and
// recording each call's success or failure on it. FanOut does not inspect
// status codes, so it never opens a circuit on a repeated 429 by itself;
// TripProviderCircuit is the explicit hook for that.
type Scheduler struct {
	providers      map[string]Provider
	maxConcurrency int64
	callTimeout    time.Duration
	circuit        *httpx.CircuitBreaker
}

func New(providers []Provider, circuit *httpx.CircuitBreaker) *Scheduler {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Scheduler{
		providers:      byName,
		maxConcurrency: defaultMaxConcurrency,
		callTimeout:    defaultCallTimeout,
		circuit:        circuit,
	}
}

// SetMaxConcurrency overrides the default fan-out width (e.g. a "rapid"
// depth run might use 4, a "deep" run 12).
func (s *Scheduler) SetMaxConcurrency(n int) {
	if n > 0 {
		s.maxConcurrency = int64(n)
	}
}

// FanOut calls Search on every named provider concurrently (bounded by
// maxConcurrency), returning every item any provider produced. A single
// provider's error never aborts the group; it is recorded in rc's
// per-provider counters and the fan-out continues for the rest.
func (s *Scheduler) FanOut(ctx context.Context, rc *evidence.RunContext, providerNames []string) []*evidence.Item {
	reporter := progress.FromContext(ctx)

	if rc.Remaining() <= 0 {
		reporter.BudgetExceeded("no budget remaining before fan-out began")
		return nil
	}

	sem := semaphore.NewWeighted(s.maxConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	results := make(chan []*evidence.Item, len(providerNames))

	for _, name := range providerNames {
		name := name
		provider, ok := s.providers[name]
		if !ok {
			continue
		}

		if s.circuit != nil && !s.circuit.Allow(name) {
			log.Printf("[scheduler] skipping %s: provider circuit open", name)
			continue
		}

		if rc.Remaining() <= 0 {
			reporter.BudgetExceeded("budget exhausted mid fan-out, remaining providers skipped")
			break
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer sem.Release(1)
			counters := rc.CountersFor(name)
			counters.IncAttempt()

			reporter.ProviderStarted(name)

			callCtx, cancel := context.WithTimeout(gctx, rc.CallTimeout(s.callTimeout))
			defer cancel()

			counters.IncCall()
			items, err := provider.Search(callCtx, rc.Topic)
			if err != nil {
				counters.IncError()
				if s.circuit != nil {
					s.circuit.RecordFailure(name)
				}
				log.Printf("[scheduler] provider %s failed: %v", name, err)
				reporter.ProviderFinished(name, err.Error())
				return nil
			}
			if s.circuit != nil {
				s.circuit.RecordSuccess(name)
			}
			reporter.ProviderFinished(name, "ok")
			results <- items
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	var out []*evidence.Item
	for items := range results {
		out = append(out, items...)
	}
	return out
}

// TripProviderCircuit forces a provider's circuit open for d. Nothing in
// the pipeline calls it; a caller that tracks 429-class responses per
// provider can use it to open that provider's circuit.
func (s *Scheduler) TripProviderCircuit(name string, d time.Duration) {
	if s.circuit != nil {
		s.circuit.TripOpenFor(name, d)
	}
}
