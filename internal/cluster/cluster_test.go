package cluster

import (
	"strings"
	"testing"

	"github.com/corrobor8/eatc/internal/evidence"
)

func mkItem(domain, text string, confidence float64) *evidence.Item {
	return &evidence.Item{
		SourceDomain: domain,
		Snippet:      text,
		Confidence:   confidence,
	}
}

func TestClustererGroupsParaphrasedClaims(t *testing.T) {
	items := []*evidence.Item{
		mkItem("a.example", "unemployment rate fell to 4.2 percent in the region", 0.8),
		mkItem("b.example", "the unemployment rate dropped to 4.2 percent regionally", 0.7),
		mkItem("c.example", "a local bakery opened downtown this weekend", 0.6),
	}
	clusters := NewClusterer(NewJaccardBackend()).Run(items)
	if len(clusters) != 2 {
		t.Fatalf("expected the two unemployment claims to merge into one cluster and the bakery item to stand alone, got %d clusters", len(clusters))
	}

	var triangulated bool
	for _, c := range clusters {
		if len(c.Indices) == 2 {
			triangulated = c.IsTriangulated
		}
	}
	if !triangulated {
		t.Fatal("a two-domain cluster should be marked triangulated")
	}
}

func TestClustererSingleItem(t *testing.T) {
	items := []*evidence.Item{mkItem("a.example", "a single fact with no corroboration", 0.5)}
	clusters := NewClusterer(nil).Run(items)
	if len(clusters) != 1 || clusters[0].IsTriangulated {
		t.Fatal("a lone item should form its own untriangulated cluster")
	}
}

func TestClassifyClaimNumeric(t *testing.T) {
	if got := classifyClaim("GDP grew by 3.1% in the third quarter"); got != evidence.ClaimNumericMeasure {
		t.Fatalf("expected numeric_measure classification, got %s", got)
	}
}

func TestClassifyClaimMechanism(t *testing.T) {
	if got := classifyClaim("prices rose because of a supply shortage"); got != evidence.ClaimMechanismOrTheory {
		t.Fatalf("expected mechanism_or_theory classification, got %s", got)
	}
}

func TestClassifyClaimOpinion(t *testing.T) {
	if got := classifyClaim("policymakers should reconsider the current approach"); got != evidence.ClaimOpinionAdvocacy {
		t.Fatalf("expected opinion_advocacy classification, got %s", got)
	}
}

func TestNumericTokensAgree(t *testing.T) {
	if !NumericTokensAgree("inflation hit 3.2%", "inflation reached 3.2 percent", 0.05) {
		t.Fatal("identical numeric token should be recognized as agreement")
	}
	if NumericTokensAgree("inflation hit 3.2%", "inflation hit 9.8%", 0.05) {
		t.Fatal("divergent numeric tokens should not be recognized as agreement")
	}
}

func TestRepresentativeClaimPrefersHighestCredibility(t *testing.T) {
	items := []*evidence.Item{
		{SourceDomain: "a.example", Snippet: "<b>low</b> credibility claim text", CredibilityScore: 0.2},
		{SourceDomain: "b.example", Snippet: "<b>high</b> credibility claim text", CredibilityScore: 0.9},
	}
	got := representativeClaim([]int{0, 1}, items)
	if got != "high credibility claim text" {
		t.Fatalf("expected the higher-credibility member's stripped text, got %q", got)
	}
}

func TestRepresentativeClaimTruncatesTo240Runes(t *testing.T) {
	long := strings.Repeat("a", 300)
	items := []*evidence.Item{{SourceDomain: "a.example", Snippet: long, CredibilityScore: 0.5}}
	got := representativeClaim([]int{0}, items)
	if len([]rune(got)) != representativeClaimMaxLen {
		t.Fatalf("expected truncation to %d runes, got %d", representativeClaimMaxLen, len([]rune(got)))
	}
}

func TestJaccardBackendSimilarity(t *testing.T) {
	b := NewJaccardBackend()
	if s := b.Similarity("the cat sat on the mat", "the cat sat on the mat"); s != 1.0 {
		t.Fatalf("identical text should score 1.0 similarity, got %v", s)
	}
	if s := b.Similarity("the cat sat on the mat", "quarterly revenue exceeded expectations"); s > 0.2 {
		t.Fatalf("unrelated text should score low similarity, got %v", s)
	}
}
