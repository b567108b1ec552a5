// Package intent classifies a research topic into one of the intents
// spec.md §4.3 defines, and maps that intent to the provider set the
// scheduler fans out to (router.go).
package intent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/corrobor8/eatc/internal/evidence"
)

// anchorRule is a keyword-anchored classification rule, matched in
// descending priority order — the same "compiled pattern, priority field,
// first-match-wins after a priority sort" idiom as the teacher's
// URLContextRule table in internal/utils/url_normalizer.go, here applied
// to topic-string classification instead of URL path templating.
type anchorRule struct {
	pattern  *regexp.Regexp
	intent   evidence.Intent
	priority int
}

var rules = []anchorRule{
	{regexp.MustCompile(`(?i)\b(diagnos|symptom|treatment|disease|clinical trial|drug|medication|side effect)\b`), evidence.IntentMedical, 100},
	{regexp.MustCompile(`(?i)\b(regulation|statute|compliance|law requires|legal requirement|directive|cfr|u\.s\.c\.)\b`), evidence.IntentRegulatory, 95},
	{regexp.MustCompile(`(?i)\b(gdp|unemployment|inflation|census|population of|statistics on|percent of|survey data)\b`), evidence.IntentStats, 90},
	{regexp.MustCompile(`(?i)\b(study|hypothesis|peer.reviewed|journal|paper on|research shows|meta-analysis)\b`), evidence.IntentAcademic, 85},
	{regexp.MustCompile(`(?i)\b(how to|step.by.step|tutorial|guide to|instructions for)\b`), evidence.IntentHowTo, 80},
	{regexp.MustCompile(`(?i)\b(flight|hotel|itinerary|visa|things to do in|travel to)\b`), evidence.IntentTravel, 75},
	{regexp.MustCompile(`(?i)\b(near me|restaurant|address of|opening hours|located in)\b`), evidence.IntentLocal, 70},
	{regexp.MustCompile(`(?i)\b(price of|review of|best .* for|buy|vs\.?|comparison)\b`), evidence.IntentProduct, 65},
	{regexp.MustCompile(`(?i)\b(breaking|announced|today|yesterday|this week|latest on)\b`), evidence.IntentNews, 60},
	{regexp.MustCompile(`(?i)\b(what is|definition of|history of|overview of|who is)\b`), evidence.IntentEncyclopedia, 55},
}

func init() {
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].priority > rules[j].priority })
}

// Classify returns the best-matching intent for topic, defaulting to
// IntentGeneric when no anchor rule fires, and honoring an explicit hint
// when the caller (CLI flag) supplied one.
func Classify(topic, hint string) evidence.Intent {
	if h := evidence.Intent(strings.ToLower(strings.TrimSpace(hint))); h != "" && isKnown(h) {
		return h
	}
	for _, r := range rules {
		if r.pattern.MatchString(topic) {
			return r.intent
		}
	}
	return evidence.IntentGeneric
}

func isKnown(i evidence.Intent) bool {
	switch i {
	case evidence.IntentEncyclopedia, evidence.IntentNews, evidence.IntentProduct, evidence.IntentLocal,
		evidence.IntentAcademic, evidence.IntentStats, evidence.IntentTravel, evidence.IntentRegulatory,
		evidence.IntentHowTo, evidence.IntentMedical, evidence.IntentGeneric:
		return true
	}
	return false
}
