package enrich

import (
	"time"

	"github.com/corrobor8/eatc/internal/evidence"
)

// recencyScore is the stepped publication-age function from spec.md §4.9.
func recencyScore(date *time.Time, now time.Time) float64 {
	if date == nil {
		return 0.5
	}
	age := now.Sub(*date)
	switch {
	case age <= 30*24*time.Hour:
		return 1.0
	case age <= 90*24*time.Hour:
		return 0.8
	case age <= 180*24*time.Hour:
		return 0.6
	case age <= 365*24*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

// markTriangulated flags every item belonging to a multi-domain cluster,
// since RecomputeConfidence needs the per-item bit, not just the
// cluster-level IsTriangulated summary.
func markTriangulated(items []*evidence.Item, clusters []*evidence.Cluster) {
	for _, c := range clusters {
		if !c.IsTriangulated {
			continue
		}
		for _, idx := range c.Indices {
			if idx >= 0 && idx < len(items) {
				items[idx].Triangulated = true
			}
		}
	}
}

// RecomputeConfidence implements the weighted-sum formula from spec.md
// §4.9: 0.4*domain_prior + 0.4*triangulated + 0.2*recency_score. Run once,
// after enrichment and primary-source promotion, before metric
// computation.
func RecomputeConfidence(items []*evidence.Item, clusters []*evidence.Cluster, now time.Time) {
	markTriangulated(items, clusters)
	for _, it := range items {
		triangulated := 0.0
		if it.Triangulated {
			triangulated = 1.0
		}
		it.Confidence = 0.4*domainPriorFor(it.SourceDomain) + 0.4*triangulated + 0.2*recencyScore(it.Date, now)
	}
}
