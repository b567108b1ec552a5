package enrich

import (
	"strconv"
	"strings"

	"github.com/corrobor8/eatc/internal/cluster"
	"github.com/corrobor8/eatc/internal/evidence"
)

// minQueriesPerGap and maxQueriesPerGap bound how many targeted queries
// DetectGaps/BuildQueries issues per under-sourced cluster, per
// spec.md §4.9 ("construct 4-8 targeted queries").
const (
	minQueriesPerGap = 4
	maxQueriesPerGap = 8
	perFamilyQuota   = 2
)

// intentPrimaryHosts maps an intent to the canonical primary hosts most
// relevant to it, used to build the site: restrictions for gap-filling
// queries. Falls back to a generic cross-discipline set.
var intentPrimaryHosts = map[evidence.Intent][]string{
	evidence.IntentStats:      {"worldbank.org", "imf.org", "oecd.org", "ec.europa.eu", "fred.stlouisfed.org"},
	evidence.IntentAcademic:   {"openalex.org", "doi.org", "pubmed.ncbi.nlm.nih.gov", "europepmc.org", "arxiv.org"},
	evidence.IntentMedical:    {"pubmed.ncbi.nlm.nih.gov", "europepmc.org", "who.int", "cdc.gov"},
	evidence.IntentRegulatory: {"sec.gov", "treasury.gov", "federalreserve.gov"},
	evidence.IntentTravel:     {"nps.gov", "un.org"},
	evidence.IntentLocal:      {"nps.gov"},
	evidence.IntentGeneric:    {"worldbank.org", "imf.org", "sec.gov"},
}

// primaryHostsForIntent returns the canonical hosts the enricher should
// restrict gap-filling queries to for the given intent.
func primaryHostsForIntent(i evidence.Intent) []string {
	if hosts, ok := intentPrimaryHosts[i]; ok {
		return hosts
	}
	return intentPrimaryHosts[evidence.IntentGeneric]
}

// DetectGaps returns the clusters whose domain set has empty intersection
// with the canonical primary-source set, per spec.md §4.9.
func DetectGaps(clusters []*evidence.Cluster) []*evidence.Cluster {
	var gaps []*evidence.Cluster
	for _, c := range clusters {
		if !hasPrimaryDomain(c.DomainSet()) {
			gaps = append(gaps, c)
		}
	}
	return gaps
}

func hasPrimaryDomain(domains []string) bool {
	for _, d := range domains {
		if IsPrimaryDomain(d) {
			return true
		}
	}
	return false
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true, "on": true,
	"to": true, "for": true, "and": true, "or": true, "is": true, "are": true,
	"was": true, "were": true, "by": true, "with": true, "at": true, "as": true,
	"that": true, "this": true, "it": true, "its": true, "has": true, "have": true,
}

// keyTokens extracts a small set of distinct, non-trivial keywords from a
// cluster's representative claim, used to seed gap-filling queries.
func keyTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()[]%")
		if len(w) < 4 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == 4 {
			break
		}
	}
	return out
}

// BuildQueries constructs 4-8 targeted, site:-restricted queries for a
// gap cluster by pairing its representative key tokens (and any numeric
// tokens) with the canonical primary hosts relevant to intent.
func BuildQueries(c *evidence.Cluster, intent evidence.Intent) []string {
	keys := keyTokens(c.RepresentativeClaim)
	if len(keys) == 0 {
		return nil
	}
	base := strings.Join(keys, " ")
	numerics := cluster.NumericTokens(c.RepresentativeClaim)

	hosts := primaryHostsForIntent(intent)
	var queries []string
	for _, host := range hosts {
		queries = append(queries, base+" site:"+host)
		if len(numerics) > 0 && len(queries) < maxQueriesPerGap {
			queries = append(queries, base+" "+trimFloat(numerics[0])+" site:"+host)
		}
		if len(queries) >= maxQueriesPerGap {
			break
		}
	}
	for len(queries) < minQueriesPerGap && len(hosts) > 0 {
		host := hosts[len(queries)%len(hosts)]
		queries = append(queries, base+" site:"+host)
	}
	if len(queries) > maxQueriesPerGap {
		queries = queries[:maxQueriesPerGap]
	}
	return queries
}

func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
