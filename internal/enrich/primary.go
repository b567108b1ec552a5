// Package enrich implements the primary-source enricher (C9): it finds
// paraphrase clusters with no primary-source backing, issues a handful of
// site-scoped re-entry queries through the scheduler to try to fill the
// gap, promotes authoritative-org items that carry numeric content, and
// recomputes each item's confidence score once enrichment is done.
package enrich

import (
	"strings"

	"github.com/corrobor8/eatc/internal/cluster"
	"github.com/corrobor8/eatc/internal/evidence"
)

// PrimarySourceDomains is the closed canonical set from spec.md §3:
// statistical agencies, peer-reviewed indices, treaty organizations, and
// regulators. An item whose source domain is a member here is a primary
// source unconditionally.
var PrimarySourceDomains = map[string]bool{
	"worldbank.org":           true,
	"documents.worldbank.org": true,
	"oecd.org":                true,
	"imf.org":                 true,
	"ec.europa.eu":            true,
	"fred.stlouisfed.org":     true,
	"stlouisfed.org":          true,
	"openalex.org":            true,
	"doi.org":                 true,
	"crossref.org":            true,
	"ncbi.nlm.nih.gov":        true,
	"pubmed.ncbi.nlm.nih.gov": true,
	"pubmed.gov":              true,
	"europepmc.org":           true,
	"arxiv.org":               true,
	"sec.gov":                 true,
	"nps.gov":                 true,
	"who.int":                 true,
	"cdc.gov":                 true,
	"census.gov":              true,
	"bls.gov":                 true,
	"treasury.gov":            true,
	"federalreserve.gov":      true,
	"un.org":                  true,
	"unesco.org":              true,
	"ilo.org":                 true,
	"unwto.org":               true,
	"iata.org":                true,
	"wttc.org":                true,
	"ecb.europa.eu":           true,
	"bis.org":                 true,
	"nature.com":              true,
	"science.org":             true,
	"nejm.org":                true,
	"thelancet.com":           true,
	"ieee.org":                true,
	"acm.org":                 true,
	"unpaywall.org":           true,
}

// primaryDomainSuffixes covers the open-ended .gov/.edu/.ac.uk patterns
// spec.md §6's trusted primary-source set names alongside the closed
// domain list above.
var primaryDomainSuffixes = []string{".gov", ".edu", ".ac.uk"}

// PrimaryOrgs is the secondary set from the glossary: domains treated as
// primary only when the specific item's text carries enough numeric
// content to look like a data citation rather than commentary about one.
var PrimaryOrgs = map[string]bool{
	"reuters.com":   true,
	"bloomberg.com": true,
	"apnews.com":    true,
	"ft.com":        true,
	"economist.com": true,
	"nytimes.com":   true,
	"bbc.com":       true,
	"wsj.com":       true,
}

// minNumericTokensForPromotion is the numeric-content bar an item on a
// PRIMARY_ORGS domain must clear before promotion, per spec.md §4.9.
const minNumericTokensForPromotion = 2

// domainPrior is a discipline-specific credibility table used by
// RecomputeConfidence; domains absent from the table fall back to 0.5.
var domainPrior = map[string]float64{
	"worldbank.org":       0.95,
	"imf.org":             0.95,
	"oecd.org":            0.92,
	"sec.gov":             0.95,
	"openalex.org":        0.85,
	"doi.org":             0.85,
	"pubmed.ncbi.nlm.nih.gov": 0.88,
	"europepmc.org":       0.82,
	"arxiv.org":            0.75,
	"fred.stlouisfed.org": 0.9,
	"en.wikipedia.org":    0.6,
	"reuters.com":         0.78,
	"bloomberg.com":       0.75,
	"nytimes.com":         0.7,
}

// IsPrimaryDomain reports whether domain belongs to the canonical
// primary-source set (used both for gap detection and admission
// filtering): either the closed domain list or one of the open-ended
// .gov/.edu/.ac.uk suffixes.
func IsPrimaryDomain(domain string) bool {
	d := strings.ToLower(domain)
	if PrimarySourceDomains[d] {
		return true
	}
	for _, suffix := range primaryDomainSuffixes {
		if strings.HasSuffix(d, suffix) {
			return true
		}
	}
	return false
}

// domainPriorFor looks up the credibility prior for a domain, defaulting
// to 0.5 when the domain carries no specific entry.
func domainPriorFor(domain string) float64 {
	if v, ok := domainPrior[strings.ToLower(domain)]; ok {
		return v
	}
	return 0.5
}

// PromotePrimarySources implements the authoritative-org promotion rule:
// an item on a PRIMARY_ORGS domain whose best text carries at least two
// numeric tokens is marked primary post-hoc. Run exactly once, before any
// metric computation, per the resolved Open Question in DESIGN.md.
func PromotePrimarySources(items []*evidence.Item) {
	for _, it := range items {
		if it.IsPrimarySource {
			continue
		}
		if !PrimaryOrgs[strings.ToLower(it.SourceDomain)] {
			continue
		}
		if len(cluster.NumericTokens(it.BestText())) >= minNumericTokensForPromotion {
			it.IsPrimarySource = true
		}
	}
}
