// Package metrics computes the final quality metrics for a run (C10) and
// evaluates them against intent-scoped gate thresholds, per spec.md §4.10.
package metrics

import (
	"strings"
	"time"

	"github.com/corrobor8/eatc/internal/evidence"
)

// credibleThreshold is the bar an item's CredibilityScore must clear to
// count toward credible_cards.
const credibleThreshold = 0.6

// recentWindow defines "recent" for recent_primary_count, matching the
// <=90d recency tier used by internal/enrich's confidence recompute.
const recentWindow = 90 * 24 * time.Hour

// Report is the full set of metrics computed once on the final filtered
// item/cluster set. cmd/eatc reshapes it into metrics.json's wire field
// names (metricsBundle) rather than serializing it verbatim.
type Report struct {
	PrimaryShare         float64 `json:"primary_share"`
	TriangulationRate    float64 `json:"triangulation_rate"`
	DomainConcentration  float64 `json:"domain_concentration"`
	UniqueDomains        int     `json:"unique_domains"`
	CredibleCards        int     `json:"credible_cards"`
	ProviderErrorRate    float64 `json:"provider_error_rate"`
	ProviderEntropy      float64 `json:"provider_entropy"`
	RecentPrimaryCount   int     `json:"recent_primary_count"`
	TriangulatedClusters int     `json:"triangulated_clusters"`

	Intent           evidence.Intent `json:"intent"`
	Thresholds       Thresholds      `json:"thresholds"`
	Gates            GateResults     `json:"gates"`
	Pass             bool            `json:"pass"`
	StrictFailedOnce bool            `json:"strict_failed_once,omitempty"`
}

// GateResults records the individual pass/fail verdict for every
// threshold-bound metric, so a caller can explain a failed run without
// recomputing anything.
type GateResults struct {
	PrimaryShare         bool `json:"primary_share"`
	TriangulationRate    bool `json:"triangulation_rate"`
	DomainConcentration  bool `json:"domain_concentration"`
	RecentPrimaryCount   bool `json:"recent_primary_count,omitempty"`
	TriangulatedClusters bool `json:"triangulated_clusters,omitempty"`
}

// Compute derives every metric in spec.md §4.10 from the final item and
// cluster sets, as of now (passed in rather than read from time.Now so
// results are reproducible in tests).
func Compute(items []*evidence.Item, clusters []*evidence.Cluster, counters map[string]*evidence.ProviderCounters, now time.Time) Report {
	var r Report
	n := len(items)
	if n == 0 {
		r.ProviderErrorRate = providerErrorRate(counters)
		return r
	}

	domainCounts := make(map[string]int)
	providerCounts := make(map[string]int)
	primaryCount := 0
	credibleCount := 0
	recentPrimary := 0
	triangulatedItems := 0

	for _, it := range items {
		domainCounts[strings.ToLower(it.SourceDomain)]++
		providerCounts[it.Provider]++
		if it.IsPrimarySource {
			primaryCount++
			if it.Date != nil && now.Sub(*it.Date) <= recentWindow {
				recentPrimary++
			}
		}
		if it.CredibilityScore >= credibleThreshold {
			credibleCount++
		}
		if it.Triangulated {
			triangulatedItems++
		}
	}

	r.PrimaryShare = float64(primaryCount) / float64(n)
	r.TriangulationRate = float64(triangulatedItems) / float64(n)
	r.UniqueDomains = len(domainCounts)
	r.CredibleCards = credibleCount
	r.RecentPrimaryCount = recentPrimary

	maxDomain := 0
	for _, c := range domainCounts {
		if c > maxDomain {
			maxDomain = c
		}
	}
	r.DomainConcentration = float64(maxDomain) / float64(n)

	for _, c := range clusters {
		if c.IsTriangulated {
			r.TriangulatedClusters++
		}
	}

	r.ProviderEntropy = shannonEntropy(providerCounts)
	r.ProviderErrorRate = providerErrorRate(counters)

	return r
}
