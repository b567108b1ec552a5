// Package contradiction screens paraphrase clusters for internally
// conflicting claims, annotating or dropping clusters whose members
// disagree more than the tolerance the run's intent allows.
package contradiction

import (
	"strings"

	"github.com/corrobor8/eatc/internal/cluster"
	"github.com/corrobor8/eatc/internal/evidence"
)

// RelativeTolerancePct is the default maximum relative numeric
// disagreement tolerated within a cluster before it is flagged as
// contradictory, per the resolved Open Question in DESIGN.md (35%).
const RelativeTolerancePct = 0.35

// MaxConflictPairFraction bounds how much of a cluster's pairwise
// comparisons may disagree before the whole cluster is treated as
// contradicted rather than merely noisy.
const MaxConflictPairFraction = 0.10

// minDomainsForNumericOpposition is spec.md §4.8's precondition: numeric
// contradiction is only evaluated once a cluster has at least this many
// distinct canonical domains, so a single source's own inconsistent
// phrasing never counts as a cross-source conflict.
const minDomainsForNumericOpposition = 3

// maxAlwaysPreservedConflicts is spec.md §4.8's "≤1 conflict always
// preserved" exception: a cluster with at most this many conflicting
// pairs is never numerically contradicted regardless of conflict fraction.
const maxAlwaysPreservedConflicts = 1

// minDirectionalMembersPerSide and minDirectionalCredibility implement
// spec.md §4.8's strong-directional-opposition bar: at least this many
// members on each side of the increase/decrease split, each side
// averaging at least this much credibility.
const (
	minDirectionalMembersPerSide = 2
	minDirectionalCredibility    = 0.6
)

// increaseWords and decreaseWords are the direction-word lists spec.md
// §4.8 tokenizes best-text against, the same lowercase-substring-scan
// idiom as the teacher's ContainsSQLError/ContainsErrorTrace pattern
// lists.
var increaseWords = []string{
	"increase", "increased", "increasing", "rose", "rise", "rising",
	"grew", "growth", "surged", "surge", "jumped", "climbed", "gained",
	"up from", "higher", "accelerated", "expanded", "soared",
}

var decreaseWords = []string{
	"decrease", "decreased", "decreasing", "fell", "fall", "falling",
	"declined", "decline", "dropped", "drop", "plunged", "slumped",
	"down from", "lower", "slowed", "contracted", "shrank",
}

// Filter screens clusters for numeric/directional disagreement.
type Filter struct {
	TolerancePct   float64
	TrustedDomains map[string]bool
	Strict         bool
}

func NewFilter(tolerancePct float64, trustedDomains []string, strict bool) *Filter {
	if tolerancePct <= 0 {
		tolerancePct = RelativeTolerancePct
	}
	trusted := make(map[string]bool, len(trustedDomains))
	for _, d := range trustedDomains {
		trusted[strings.ToLower(d)] = true
	}
	return &Filter{TolerancePct: tolerancePct, TrustedDomains: trusted, Strict: strict}
}

// Apply annotates each cluster's Meta in place, returning the clusters
// that survive (a cluster dropped outright is only omitted when it has no
// trusted-domain member and the run is not in strict mode, which instead
// preserves every cluster with a PreservedInStrict flag per spec.md §4.8).
func (f *Filter) Apply(items []*evidence.Item, clusters []*evidence.Cluster) []*evidence.Cluster {
	var kept []*evidence.Cluster
	for _, c := range clusters {
		conflict, conflictFraction := f.evaluate(items, c)
		if !conflict {
			kept = append(kept, c)
			continue
		}

		c.Meta.NeedsReview = true
		if f.hasTrustedMember(items, c) {
			c.Meta.DroppedReason = ""
			kept = append(kept, c)
			continue
		}

		if f.Strict {
			c.Meta.PreservedInStrict = true
			c.Meta.DroppedReason = "contradicted_but_preserved_strict"
			kept = append(kept, c)
			continue
		}

		c.Meta.DroppedReason = "contradicted_drop"
		for _, idx := range c.Indices {
			items[idx].Failure = evidence.FailureContradictedDrop
		}
		_ = conflictFraction
	}
	return kept
}

// evaluate reports whether a cluster is contradicted by either of
// spec.md §4.8's two independent tests — strong directional opposition or
// numeric opposition — and the numeric conflict fraction for diagnostics.
func (f *Filter) evaluate(items []*evidence.Item, c *evidence.Cluster) (conflict bool, fraction float64) {
	if len(c.Indices) < 2 {
		return false, 0
	}

	texts := make([]string, len(c.Indices))
	for i, idx := range c.Indices {
		texts[i] = items[idx].BestText()
	}

	numericContradicted, fraction := f.numericOpposition(texts, c.DomainCount())
	directional := directionalOpposition(items, c.Indices, texts)

	return directional || numericContradicted, fraction
}

// numericOpposition implements spec.md §4.8's numeric-opposition test: it
// only applies once the cluster spans at least minDomainsForNumericOpposition
// distinct domains, and treats a cluster with at most
// maxAlwaysPreservedConflicts conflicting pairs as agreeing regardless of
// conflict fraction.
func (f *Filter) numericOpposition(texts []string, domainCount int) (contradicted bool, fraction float64) {
	if domainCount < minDomainsForNumericOpposition {
		return false, 0
	}

	total, conflicted := 0, 0
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			ta := cluster.NumericTokens(texts[i])
			tb := cluster.NumericTokens(texts[j])
			if len(ta) == 0 || len(tb) == 0 {
				continue
			}
			total++
			if numericConflict(ta, tb, f.TolerancePct) {
				conflicted++
			}
		}
	}
	if total == 0 || conflicted <= maxAlwaysPreservedConflicts {
		return false, 0
	}
	fraction = float64(conflicted) / float64(total)
	return fraction > MaxConflictPairFraction, fraction
}

// directionalOpposition implements spec.md §4.8's directional-opposition
// test: tokenize each member's best text, bucket it by whether it
// contains an increase-word or a decrease-word, and require strong
// opposition (≥2 members, ≥0.6 average credibility) on both sides.
func directionalOpposition(items []*evidence.Item, indices []int, texts []string) bool {
	var increaseCredibility, decreaseCredibility []float64

	for i, idx := range indices {
		lower := strings.ToLower(texts[i])
		up := containsAny(lower, increaseWords)
		down := containsAny(lower, decreaseWords)
		if up && !down {
			increaseCredibility = append(increaseCredibility, items[idx].CredibilityScore)
		} else if down && !up {
			decreaseCredibility = append(decreaseCredibility, items[idx].CredibilityScore)
		}
	}

	if len(increaseCredibility) < minDirectionalMembersPerSide || len(decreaseCredibility) < minDirectionalMembersPerSide {
		return false
	}
	return average(increaseCredibility) >= minDirectionalCredibility && average(decreaseCredibility) >= minDirectionalCredibility
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// numericConflict reports whether every pairing of numeric tokens between
// two claims disagrees by more than tolerance — a single shared value (the
// claims cite the same statistic) is treated as agreement even if other
// unrelated numbers in the sentences differ.
func numericConflict(a, b []float64, tolerance float64) bool {
	for _, x := range a {
		for _, y := range b {
			if agrees(x, y, tolerance) {
				return false
			}
		}
	}
	return true
}

func agrees(x, y, tolerance float64) bool {
	if x == 0 && y == 0 {
		return true
	}
	if x == 0 || y == 0 {
		return false
	}
	rel := x - y
	if rel < 0 {
		rel = -rel
	}
	base := x
	if base < 0 {
		base = -base
	}
	return rel/base <= tolerance
}

func (f *Filter) hasTrustedMember(items []*evidence.Item, c *evidence.Cluster) bool {
	for _, idx := range c.Indices {
		d := strings.ToLower(items[idx].SourceDomain)
		if f.TrustedDomains[d] {
			return true
		}
	}
	return false
}
