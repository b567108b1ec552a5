package cluster

import (
	"regexp"
	"strconv"
	"strings"
)

// SimilarityBackend is the capability C7 needs: a [0,1] similarity score
// between two claim texts. embed.go supplies a genkit-embedding-backed
// implementation when that capability is configured; jaccardBackend is
// always available as the fallback.
type SimilarityBackend interface {
	Similarity(a, b string) float64
	Name() string
}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?%?`)

// jaccardBackend scores similarity by token-set overlap. This generalizes
// the teacher's internal/utils/heuristics.go Similarity function, which
// compared two HTTP response bodies character-by-character at matching
// positions to decide if a vulnerability test round-tripped unchanged —
// here the unit being compared is a short claim sentence, so positional
// character comparison is meaningless and token-set Jaccard is used
// instead, but the "cheap score before reaching for anything heavier"
// role is the same.
type jaccardBackend struct{}

func (jaccardBackend) Name() string { return "jaccard" }

func (jaccardBackend) Similarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	intersection := 0
	for tok := range ta {
		if tb[tok] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,!?;:\"'()[]")
		if len(w) >= 2 {
			set[w] = true
		}
	}
	return set
}

// NumericTokens extracts the numeric substrings in a claim, used both for
// the agreement boost in cluster.go and for the contradiction filter's
// relative-difference check.
func NumericTokens(s string) []float64 {
	matches := numberPattern.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		clean := strings.TrimSuffix(m, "%")
		if v, err := strconv.ParseFloat(clean, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// NumericTokensAgree reports whether a and b share at least one numeric
// token within a tight relative tolerance, used as a boost signal: two
// claims citing the identical statistic are likely paraphrases even when
// their surrounding prose differs more than the base threshold allows.
func NumericTokensAgree(a, b string, tolerance float64) bool {
	na := NumericTokens(a)
	nb := NumericTokens(b)
	for _, x := range na {
		for _, y := range nb {
			if x == 0 && y == 0 {
				return true
			}
			if x == 0 || y == 0 {
				continue
			}
			rel := abs(x-y) / abs(x)
			if rel <= tolerance {
				return true
			}
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
