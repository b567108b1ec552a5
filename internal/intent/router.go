package intent

import "github.com/corrobor8/eatc/internal/evidence"

// ProviderSet is the fan-out set the scheduler calls for a given intent,
// split into priority tiers. The pipeline passes All() to the scheduler,
// which calls every tier's providers in the same concurrent fan-out; the
// tier order sets the order calls are started, not a gate between tiers.
type ProviderSet struct {
	Primary   []string
	Secondary []string
	Fallback  []string
}

// routeTable maps each intent to its provider tiers. Provider name strings
// are the same identifiers internal/providers registers adapters under.
var routeTable = map[evidence.Intent]ProviderSet{
	evidence.IntentEncyclopedia: {
		Primary:   []string{"wikipedia", "wikidata"},
		Secondary: []string{"tavily", "brave"},
		Fallback:  []string{"serper", "serpapi"},
	},
	evidence.IntentNews: {
		Primary:   []string{"tavily", "brave", "serper"},
		Secondary: []string{"wikipedia"},
		Fallback:  []string{"serpapi"},
	},
	evidence.IntentProduct: {
		Primary:   []string{"tavily", "brave"},
		Secondary: []string{"serper", "serpapi"},
		Fallback:  []string{"wikipedia"},
	},
	evidence.IntentLocal: {
		Primary:   []string{"nominatim", "overpass"},
		Secondary: []string{"nps", "tavily"},
		Fallback:  []string{"brave"},
	},
	evidence.IntentAcademic: {
		Primary:   []string{"openalex", "crossref", "arxiv"},
		Secondary: []string{"pubmed", "europepmc"},
		Fallback:  []string{"wikipedia"},
	},
	evidence.IntentStats: {
		Primary:   []string{"worldbank", "oecd", "imf", "eurostat", "fred"},
		Secondary: []string{"wikipedia"},
		Fallback:  []string{"tavily"},
	},
	evidence.IntentTravel: {
		Primary:   []string{"nps", "nominatim", "wikipedia"},
		Secondary: []string{"tavily", "brave"},
		Fallback:  []string{"serper"},
	},
	evidence.IntentRegulatory: {
		Primary:   []string{"edgar", "wikipedia"},
		Secondary: []string{"tavily", "brave"},
		Fallback:  []string{"serper"},
	},
	evidence.IntentHowTo: {
		Primary:   []string{"tavily", "brave"},
		Secondary: []string{"wikipedia"},
		Fallback:  []string{"serper", "serpapi"},
	},
	evidence.IntentMedical: {
		Primary:   []string{"pubmed", "europepmc"},
		Secondary: []string{"openalex", "crossref"},
		Fallback:  []string{"wikipedia"},
	},
	evidence.IntentGeneric: {
		Primary:   []string{"wikipedia", "tavily", "brave"},
		Secondary: []string{"serper", "serpapi"},
		Fallback:  []string{"wayback"},
	},
}

// RouteFor returns the provider tiers for intent, falling back to the
// generic tier set for an unrecognized intent rather than returning empty
// tiers (a misclassification should degrade breadth, not fail the run).
func RouteFor(i evidence.Intent) ProviderSet {
	if set, ok := routeTable[i]; ok {
		return set
	}
	return routeTable[evidence.IntentGeneric]
}

// All returns the provider tiers flattened in priority order, the shape
// the scheduler actually iterates.
func (p ProviderSet) All() []string {
	out := make([]string, 0, len(p.Primary)+len(p.Secondary)+len(p.Fallback))
	out = append(out, p.Primary...)
	out = append(out, p.Secondary...)
	out = append(out, p.Fallback...)
	return out
}
