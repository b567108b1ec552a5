package contradiction

import (
	"testing"

	"github.com/corrobor8/eatc/internal/evidence"
)

func clusterOf(items []*evidence.Item, indices ...int) *evidence.Cluster {
	domains := make(map[string]bool)
	for _, idx := range indices {
		domains[items[idx].SourceDomain] = true
	}
	return &evidence.Cluster{Indices: indices, Domains: domains}
}

func TestFilterKeepsAgreeingCluster(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "a.example", Snippet: "unemployment is 4.2 percent"},
		{SourceDomain: "b.example", Snippet: "unemployment reached 4.2%"},
	}
	f := NewFilter(0.35, nil, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1)})
	if len(clusters) != 1 || clusters[0].Meta.NeedsReview {
		t.Fatal("a cluster whose members agree numerically should pass through untouched")
	}
}

func TestFilterIgnoresNumericConflictBelowDomainThreshold(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "blog-a.example", Snippet: "inflation hit 2.0 percent"},
		{SourceDomain: "blog-b.example", Snippet: "inflation hit 9.5 percent"},
	}
	f := NewFilter(0.35, nil, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1)})
	if len(clusters) != 1 || clusters[0].Meta.NeedsReview {
		t.Fatal("numeric opposition requires >=3 distinct domains; a 2-domain cluster must not be flagged")
	}
}

func TestFilterDropsConflictingClusterWithoutTrustedMember(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "blog-a.example", Snippet: "inflation hit 2.0 percent"},
		{SourceDomain: "blog-b.example", Snippet: "inflation hit 9.5 percent"},
		{SourceDomain: "blog-c.example", Snippet: "inflation hit 20.0 percent"},
		{SourceDomain: "blog-d.example", Snippet: "inflation hit 40.0 percent"},
	}
	f := NewFilter(0.35, nil, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1, 2, 3)})
	if len(clusters) != 0 {
		t.Fatalf("expected the conflicting cluster to be dropped, got %d surviving", len(clusters))
	}
	if items[0].Failure != evidence.FailureContradictedDrop {
		t.Fatal("dropped items should be tagged with the contradicted_drop failure mode")
	}
}

func TestFilterPreservesConflictAtOrBelowOneConflictingPair(t *testing.T) {
	// 4 domains agreeing closely, except one pair that disagrees -- exactly
	// one conflicting pair among many is always preserved per spec.md §4.8.
	items := []*evidence.Item{
		{SourceDomain: "a.example", Snippet: "GDP grew 3.0 percent"},
		{SourceDomain: "b.example", Snippet: "GDP grew 3.1 percent"},
		{SourceDomain: "c.example", Snippet: "GDP grew 3.05 percent"},
		{SourceDomain: "d.example", Snippet: "GDP grew 4.1 percent"},
	}
	f := NewFilter(0.35, nil, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1, 2, 3)})
	if len(clusters) != 1 {
		t.Fatal("a single conflicting pair among many agreeing pairs must be preserved, not dropped")
	}
}

func TestFilterKeepsConflictWithTrustedDomain(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "imf.org", Snippet: "inflation hit 2.0 percent"},
		{SourceDomain: "blog-b.example", Snippet: "inflation hit 9.5 percent"},
		{SourceDomain: "blog-c.example", Snippet: "inflation hit 20.0 percent"},
		{SourceDomain: "blog-d.example", Snippet: "inflation hit 40.0 percent"},
	}
	f := NewFilter(0.35, []string{"imf.org"}, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1, 2, 3)})
	if len(clusters) != 1 {
		t.Fatal("a conflicting cluster with a trusted-domain member should be kept, not dropped")
	}
	if !clusters[0].Meta.NeedsReview {
		t.Fatal("expected the surviving cluster to still be flagged needs_review")
	}
}

func TestFilterStrictModePreservesInsteadOfDropping(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "blog-a.example", Snippet: "inflation hit 2.0 percent"},
		{SourceDomain: "blog-b.example", Snippet: "inflation hit 9.5 percent"},
		{SourceDomain: "blog-c.example", Snippet: "inflation hit 20.0 percent"},
		{SourceDomain: "blog-d.example", Snippet: "inflation hit 40.0 percent"},
	}
	f := NewFilter(0.35, nil, true)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1, 2, 3)})
	if len(clusters) != 1 || !clusters[0].Meta.PreservedInStrict {
		t.Fatal("strict mode must preserve a contradicted cluster instead of dropping it")
	}
}

func TestFilterDropsOnStrongDirectionalOpposition(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "a.example", Snippet: "sales increased sharply last quarter", CredibilityScore: 0.7},
		{SourceDomain: "b.example", Snippet: "sales rose again in the latest report", CredibilityScore: 0.65},
		{SourceDomain: "c.example", Snippet: "sales declined sharply last quarter", CredibilityScore: 0.7},
		{SourceDomain: "d.example", Snippet: "sales fell again in the latest report", CredibilityScore: 0.62},
	}
	f := NewFilter(0.35, nil, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1, 2, 3)})
	if len(clusters) != 0 {
		t.Fatalf("expected strong directional opposition to drop the cluster, got %d surviving", len(clusters))
	}
}

func TestFilterKeepsDirectionalOppositionBelowCredibilityBar(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "a.example", Snippet: "sales increased sharply last quarter", CredibilityScore: 0.3},
		{SourceDomain: "b.example", Snippet: "sales rose again in the latest report", CredibilityScore: 0.2},
		{SourceDomain: "c.example", Snippet: "sales declined sharply last quarter", CredibilityScore: 0.3},
		{SourceDomain: "d.example", Snippet: "sales fell again in the latest report", CredibilityScore: 0.2},
	}
	f := NewFilter(0.35, nil, false)
	clusters := f.Apply(items, []*evidence.Cluster{clusterOf(items, 0, 1, 2, 3)})
	if len(clusters) != 1 || clusters[0].Meta.NeedsReview {
		t.Fatal("directional opposition below the credibility bar must not flag the cluster")
	}
}
