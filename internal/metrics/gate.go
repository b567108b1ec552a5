package metrics

import (
	"time"

	"github.com/corrobor8/eatc/internal/evidence"
)

// Evaluate computes the report for intent and fills in its threshold and
// gate-pass fields, per spec.md §4.10: "every metric and its pass flag
// relative to the thresholds actually used".
func Evaluate(items []*evidence.Item, clusters []*evidence.Cluster, counters map[string]*evidence.ProviderCounters, intent evidence.Intent, now time.Time) Report {
	r := Compute(items, clusters, counters, now)
	r.Intent = intent
	th := ThresholdsFor(intent)
	r.Thresholds = th

	r.Gates.PrimaryShare = r.PrimaryShare >= th.PrimaryShareMin
	r.Gates.TriangulationRate = r.TriangulationRate >= th.TriangulationRateMin
	r.Gates.DomainConcentration = r.DomainConcentration <= th.DomainConcentrationMax

	pass := r.Gates.PrimaryShare && r.Gates.TriangulationRate && r.Gates.DomainConcentration

	if th.RecentPrimaryCountMin > 0 {
		r.Gates.RecentPrimaryCount = r.RecentPrimaryCount >= th.RecentPrimaryCountMin
		pass = pass && r.Gates.RecentPrimaryCount
	}
	if th.TriangulatedClustersMin > 0 {
		r.Gates.TriangulatedClusters = r.TriangulatedClusters >= th.TriangulatedClustersMin
		pass = pass && r.Gates.TriangulatedClusters
	}

	r.Pass = pass
	return r
}

// DegradedParaphraseThreshold is the loosened paraphrase-clustering
// threshold the strict-mode retry pass uses, per spec.md §4.10's example
// ("loosen the paraphrase threshold, e.g., to 0.34").
const DegradedParaphraseThreshold = 0.34

// Outcome is the final status pipeline.Run reports after gate evaluation,
// mapped to the exit codes in spec.md §6.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDegraded Outcome = "degraded"
	OutcomeNoEvidence Outcome = "no_evidence"
)

// Resolve maps a final gate Report (and whether any evidence was produced
// at all) to the run outcome, per spec.md §6/§7's exit code table: zero
// items is no_evidence regardless of gate state; passing gates is
// success; any gate failure is degraded. In strict mode, the caller is
// expected to have already run one retry pass (loosened paraphrase
// threshold, re-clustered, re-enriched, re-evaluated via Evaluate) before
// calling Resolve on the final report — Resolve itself only looks at the
// report it's handed, it does not retry.
func Resolve(r Report, hasItems bool) Outcome {
	if !hasItems {
		return OutcomeNoEvidence
	}
	if r.Pass {
		return OutcomeSuccess
	}
	return OutcomeDegraded
}
