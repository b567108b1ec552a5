package evidence

import (
	"sync"
	"sync/atomic"
	"time"
)

// Intent is the closed-set tag produced by the intent classifier (C3) and
// consumed by the router, the enricher, and the gate thresholds.
type Intent string

const (
	IntentEncyclopedia Intent = "encyclopedia"
	IntentNews         Intent = "news"
	IntentProduct      Intent = "product"
	IntentLocal        Intent = "local"
	IntentAcademic     Intent = "academic"
	IntentStats        Intent = "stats"
	IntentTravel       Intent = "travel"
	IntentRegulatory   Intent = "regulatory"
	IntentHowTo        Intent = "howto"
	IntentMedical      Intent = "medical"
	IntentGeneric      Intent = "generic"
)

// Depth controls how aggressively the fan-out scheduler and enricher spend
// the wall-clock budget.
type Depth string

const (
	DepthRapid    Depth = "rapid"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// RunRequest is the input to a single pipeline invocation (SPEC_FULL §6).
type RunRequest struct {
	Topic        string
	IntentHint   Intent
	Depth        Depth
	BudgetSeconds int
	Strict       bool
	OutputDir    string
	Providers    []string // optional explicit override of the router's selection
}

// ProviderCounters are the atomic per-provider attempt/error/call counters
// required by SPEC_FULL §5. One instance lives per provider per run.
type ProviderCounters struct {
	attempts atomic.Int64
	errors   atomic.Int64
	calls    atomic.Int64
}

func (c *ProviderCounters) IncAttempt() { c.attempts.Add(1) }
func (c *ProviderCounters) IncError()   { c.errors.Add(1) }
func (c *ProviderCounters) IncCall()    { c.calls.Add(1) }

func (c *ProviderCounters) Snapshot() (attempts, errors, calls int64) {
	return c.attempts.Load(), c.errors.Load(), c.calls.Load()
}

// RunContext is the single per-invocation object threaded by pointer through
// every component, replacing the module-level globals and mutable
// attribute bags of the source system (Design Note §9). Only the
// orchestrator (internal/pipeline) writes Intent/StrictFailedOnce, and the
// enricher (internal/enrich.Run) temporarily rewrites Topic while it issues
// gap-fill queries, restoring it before it returns; every
// other field is either immutable after construction or exclusively
// owned by one subsystem's own synchronization (ProviderCounters,
// the embedded Deadline).
type RunContext struct {
	Topic    string
	Intent   Intent
	Depth    Depth
	Strict   bool
	OutputDir string

	Deadline time.Time

	mu               sync.Mutex
	strictFailedOnce bool

	countersMu sync.Mutex
	counters   map[string]*ProviderCounters
}

func NewRunContext(req RunRequest, intent Intent, budget time.Duration) *RunContext {
	return &RunContext{
		Topic:     req.Topic,
		Intent:    intent,
		Depth:     req.Depth,
		Strict:    req.Strict,
		OutputDir: req.OutputDir,
		Deadline:  time.Now().Add(budget),
		counters:  make(map[string]*ProviderCounters),
	}
}

// Remaining returns the time left until the deadline, never negative.
func (rc *RunContext) Remaining() time.Duration {
	d := time.Until(rc.Deadline)
	if d < 0 {
		return 0
	}
	return d
}

// CallTimeout computes min(callDefault, remaining-budget) per SPEC_FULL §5.
func (rc *RunContext) CallTimeout(callDefault time.Duration) time.Duration {
	remaining := rc.Remaining()
	if remaining < callDefault {
		return remaining
	}
	return callDefault
}

func (rc *RunContext) SetStrictFailedOnce() {
	rc.mu.Lock()
	rc.strictFailedOnce = true
	rc.mu.Unlock()
}

func (rc *RunContext) StrictFailedOnce() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.strictFailedOnce
}

// CountersFor returns (creating if necessary) the counter block for a
// provider name. Safe for concurrent use by the fan-out scheduler.
func (rc *RunContext) CountersFor(provider string) *ProviderCounters {
	rc.countersMu.Lock()
	defer rc.countersMu.Unlock()
	c, ok := rc.counters[provider]
	if !ok {
		c = &ProviderCounters{}
		rc.counters[provider] = c
	}
	return c
}

// AllCounters returns a snapshot map for metrics computation.
func (rc *RunContext) AllCounters() map[string]*ProviderCounters {
	rc.countersMu.Lock()
	defer rc.countersMu.Unlock()
	out := make(map[string]*ProviderCounters, len(rc.counters))
	for k, v := range rc.counters {
		out[k] = v
	}
	return out
}
