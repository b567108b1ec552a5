package cluster

import (
	"sort"
	"strings"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/normalize"
)

// thresholdFloor and thresholdCeil clamp the adaptive paraphrase threshold
// described in spec.md §4.7: the 70th percentile of pairwise similarities,
// clamped to keep a run with either very sparse or very dense evidence from
// producing a degenerate threshold.
const (
	thresholdFloor         = 0.32
	thresholdCeil          = 0.48
	numericAgreementBoost  = 0.10
	numericAgreementTol    = 0.05
	percentileForThreshold = 0.70
)

// Clusterer groups items into paraphrase clusters using a pluggable
// similarity backend (embedding-based when configured, Jaccard otherwise).
type Clusterer struct {
	backend SimilarityBackend

	// ForcedThreshold overrides the adaptive percentile threshold when > 0,
	// used by the strict-mode retry pass (spec.md §4.10's "loosen the
	// paraphrase threshold, e.g., to 0.34" example) to re-cluster without
	// recomputing a percentile over the same pairwise scores.
	ForcedThreshold float64
}

func NewClusterer(backend SimilarityBackend) *Clusterer {
	if backend == nil {
		backend = NewJaccardBackend()
	}
	return &Clusterer{backend: backend}
}

// Run clusters items by pairwise claim similarity and returns one
// evidence.Cluster per group, each annotated with its representative claim
// type, domain set, and triangulation flag.
func (c *Clusterer) Run(items []*evidence.Item) []*evidence.Cluster {
	n := len(items)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []*evidence.Cluster{c.buildCluster([]int{0}, items)}
	}

	texts := make([]string, n)
	for i, it := range items {
		texts[i] = it.BestText()
	}

	sims := pairwiseSimilarities(c.backend, texts)
	threshold := adaptiveThreshold(sims)
	if c.ForcedThreshold > 0 {
		threshold = c.ForcedThreshold
	}

	uf := newUnionFind(n)
	for _, p := range sims {
		effective := threshold
		if NumericTokensAgree(texts[p.i], texts[p.j], numericAgreementTol) {
			effective -= numericAgreementBoost
		}
		if p.score >= effective {
			uf.union(p.i, p.j)
		}
	}

	groups := uf.groups()
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	clusters := make([]*evidence.Cluster, 0, len(groups))
	for _, root := range roots {
		clusters = append(clusters, c.buildCluster(groups[root], items))
	}
	return clusters
}

type pairScore struct {
	i, j  int
	score float64
}

func pairwiseSimilarities(backend SimilarityBackend, texts []string) []pairScore {
	var out []pairScore
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			out = append(out, pairScore{i, j, backend.Similarity(texts[i], texts[j])})
		}
	}
	return out
}

// adaptiveThreshold returns the percentileForThreshold-th percentile of
// pairwise scores, clamped to [thresholdFloor, thresholdCeil].
func adaptiveThreshold(pairs []pairScore) float64 {
	if len(pairs) == 0 {
		return thresholdFloor
	}
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		scores[i] = p.score
	}
	sort.Float64s(scores)
	idx := int(float64(len(scores)-1) * percentileForThreshold)
	v := scores[idx]
	if v < thresholdFloor {
		return thresholdFloor
	}
	if v > thresholdCeil {
		return thresholdCeil
	}
	return v
}

func (c *Clusterer) buildCluster(indices []int, items []*evidence.Item) *evidence.Cluster {
	sort.Ints(indices)
	domains := make(map[string]bool)
	for _, idx := range indices {
		d := items[idx].SourceDomain
		if d == "" {
			d = normalize.SourceDomain(items[idx].URL)
		}
		domains[d] = true
	}

	rep := representativeClaim(indices, items)
	return &evidence.Cluster{
		Indices:             indices,
		Domains:             domains,
		RepresentativeClaim: rep,
		ClaimType:           classifyClaim(rep),
		IsTriangulated:      len(domains) >= 2,
	}
}

// representativeClaimMaxLen is spec.md §4.7's cap on a cluster's
// representative claim text.
const representativeClaimMaxLen = 240

// representativeClaim returns the highest-credibility member's best text as
// the cluster's representative, stripped of inline markup and truncated to
// representativeClaimMaxLen runes.
func representativeClaim(indices []int, items []*evidence.Item) string {
	best := indices[0]
	for _, idx := range indices[1:] {
		if betterRepresentative(items[idx], items[best]) {
			best = idx
		}
	}
	return truncateClaim(normalize.StripHTML(items[best].BestText()))
}

func betterRepresentative(a, b *evidence.Item) bool {
	return a.CredibilityScore > b.CredibilityScore
}

func truncateClaim(s string) string {
	runes := []rune(s)
	if len(runes) <= representativeClaimMaxLen {
		return s
	}
	return strings.TrimSpace(string(runes[:representativeClaimMaxLen]))
}

var (
	mechanismWords = []string{"because", "due to", "caused by", "mechanism", "theory", "suggests that", "driven by"}
	opinionWords   = []string{"should", "must", "argues", "believes", "advocates", "in my view", "opinion"}
)

// classifyClaim is a keyword-anchor heuristic: a fixed priority-checked
// word list, same shape as the contradiction package's direction-word
// lists, applied to claim-type tagging instead of sentiment direction.
func classifyClaim(text string) evidence.ClaimType {
	lower := strings.ToLower(text)
	if len(NumericTokens(text)) > 0 {
		return evidence.ClaimNumericMeasure
	}
	for _, w := range mechanismWords {
		if strings.Contains(lower, w) {
			return evidence.ClaimMechanismOrTheory
		}
	}
	for _, w := range opinionWords {
		if strings.Contains(lower, w) {
			return evidence.ClaimOpinionAdvocacy
		}
	}
	return evidence.ClaimNewsContext
}
