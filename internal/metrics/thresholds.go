package metrics

import "github.com/corrobor8/eatc/internal/evidence"

// Thresholds is one intent's quality-gate row from spec.md §4.10's table.
type Thresholds struct {
	PrimaryShareMin        float64 `json:"primary_share_min"`
	TriangulationRateMin   float64 `json:"triangulation_rate_min"`
	DomainConcentrationMax float64 `json:"domain_concentration_max"`
	RecentPrimaryCountMin  int     `json:"recent_primary_count_min,omitempty"`
	TriangulatedClustersMin int    `json:"triangulated_clusters_min,omitempty"`
}

// thresholdTable holds the intent-scoped rows named explicitly in
// spec.md §4.10, plus a generic fallback row for every intent the table
// doesn't call out by name.
var thresholdTable = map[evidence.Intent]Thresholds{
	evidence.IntentStats: {
		PrimaryShareMin:         0.50,
		TriangulationRateMin:    0.40,
		DomainConcentrationMax:  0.25,
		RecentPrimaryCountMin:   3,
		TriangulatedClustersMin: 1,
	},
	evidence.IntentAcademic: {
		PrimaryShareMin:        0.50,
		TriangulationRateMin:   0.40,
		DomainConcentrationMax: 0.25,
	},
	evidence.IntentTravel: {
		PrimaryShareMin:        0.30,
		TriangulationRateMin:   0.25,
		DomainConcentrationMax: 0.35,
	},
	evidence.IntentGeneric: {
		PrimaryShareMin:        0.50,
		TriangulationRateMin:   0.45,
		DomainConcentrationMax: 0.25,
	},
}

// ThresholdsFor returns the gate thresholds for intent, falling back to
// the generic row when intent has no dedicated entry in the table.
func ThresholdsFor(intent evidence.Intent) Thresholds {
	if t, ok := thresholdTable[intent]; ok {
		return t
	}
	return thresholdTable[evidence.IntentGeneric]
}
