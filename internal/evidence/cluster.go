package evidence

import "sort"

// ClaimType classifies the kind of statement a cluster's representative
// claim makes, used by downstream composers to choose presentation.
type ClaimType string

const (
	ClaimNumericMeasure   ClaimType = "numeric_measure"
	ClaimMechanismOrTheory ClaimType = "mechanism_or_theory"
	ClaimOpinionAdvocacy  ClaimType = "opinion_advocacy"
	ClaimNewsContext      ClaimType = "news_context"
)

// Cluster groups item indices (into the run's final item slice) whose claim
// texts were judged semantically equivalent by the paraphrase clusterer. A
// cluster is a multiset: the same domain may appear twice if two items from
// one source both landed in it, but IsTriangulated only counts distinct
// domains.
type Cluster struct {
	Indices              []int           `json:"indices"`
	Domains              map[string]bool `json:"-"`
	RepresentativeClaim  string          `json:"representative_claim"`
	ClaimType            ClaimType       `json:"claim_type"`
	IsTriangulated       bool            `json:"is_triangulated"`
	Meta                 ClusterMeta     `json:"meta,omitempty"`
}

// ClusterMeta carries the annotations C8 (contradiction filter) attaches
// after clustering but before serialization.
type ClusterMeta struct {
	NeedsReview        bool   `json:"needs_review,omitempty"`
	DroppedReason      string `json:"dropped_reason,omitempty"`
	PreservedInStrict  bool   `json:"preserved_in_strict,omitempty"`
}

// DomainSet returns the sorted distinct canonical domains backing the
// cluster, computed from Domains on every call.
func (c *Cluster) DomainSet() []string {
	out := make([]string, 0, len(c.Domains))
	for d := range c.Domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DomainCount is a convenience used throughout C8/C9/C10 thresholds.
func (c *Cluster) DomainCount() int {
	return len(c.Domains)
}

// ClusterJSON is the wire shape for clusters.json, where Domains serializes
// as a sorted slice instead of the working map.
type ClusterJSON struct {
	Indices             []int       `json:"indices"`
	Domains             []string    `json:"domains"`
	RepresentativeClaim string      `json:"representative_claim"`
	ClaimType           ClaimType   `json:"claim_type"`
	IsTriangulated      bool        `json:"is_triangulated"`
	Meta                ClusterMeta `json:"meta,omitempty"`
}

func (c *Cluster) ToJSON() ClusterJSON {
	return ClusterJSON{
		Indices:             c.Indices,
		Domains:             c.DomainSet(),
		RepresentativeClaim: c.RepresentativeClaim,
		ClaimType:           c.ClaimType,
		IsTriangulated:      c.IsTriangulated,
		Meta:                c.Meta,
	}
}
