package metrics

import (
	"math"

	"github.com/corrobor8/eatc/internal/evidence"
)

// shannonEntropy computes the Shannon entropy of the provider distribution,
// normalized by log(|providers|) so the result lands in [0, 1]; a single
// provider (or none) yields 0 per spec.md §4.10.
func shannonEntropy(providerCounts map[string]int) float64 {
	k := len(providerCounts)
	if k <= 1 {
		return 0
	}
	total := 0
	for _, c := range providerCounts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range providerCounts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(k))
}

// providerErrorRate aggregates per-provider attempt/error counters into a
// single run-wide error rate.
func providerErrorRate(counters map[string]*evidence.ProviderCounters) float64 {
	var attempts, errs int64
	for _, c := range counters {
		a, e, _ := c.Snapshot()
		attempts += a
		errs += e
	}
	if attempts == 0 {
		return 0
	}
	return float64(errs) / float64(attempts)
}
