package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TextFetcher is the minimal capability the paywall resolver needs from
// C1, kept as an interface so the resolver can run against any fetcher;
// fetch.go adapts an httpx-backed Fetcher to it (textFetcherAdapter).
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (status int, body []byte, ok bool)
}

// mirrorHosts are known green-OA mirrors checked, in order, once Unpaywall
// and the citation_pdf_url meta tag both come up empty.
var mirrorHosts = []string{
	"ncbi.nlm.nih.gov/pmc/articles",
	"semanticscholar.org",
}

type unpaywallResponse struct {
	IsOA        bool `json:"is_oa"`
	BestOALocation *struct {
		URLForPDF string `json:"url_for_pdf"`
		URL       string `json:"url"`
	} `json:"best_oa_location"`
}

// ResolveOpenAccessPDF climbs the paywall resolution ladder described in
// SPEC_FULL §4.1: Unpaywall lookup by DOI, then a citation_pdf_url scan of
// the landing page HTML. Returns "" if neither rung produces a URL; it does
// not consult mirrorHosts (resolveGated in fetch.go applies the mirror-host
// fallback via LooksLikeMirror).
func ResolveOpenAccessPDF(ctx context.Context, f TextFetcher, doi, landingHTML, unpaywallEmail string) string {
	if doi != "" && unpaywallEmail != "" {
		apiURL := fmt.Sprintf("https://api.unpaywall.org/v2/%s?email=%s", doi, unpaywallEmail)
		if status, body, ok := f.FetchText(ctx, apiURL); ok && status == 200 {
			var resp unpaywallResponse
			if err := json.Unmarshal(body, &resp); err == nil && resp.IsOA && resp.BestOALocation != nil {
				if resp.BestOALocation.URLForPDF != "" {
					return resp.BestOALocation.URLForPDF
				}
				if resp.BestOALocation.URL != "" {
					return resp.BestOALocation.URL
				}
			}
		}
	}

	if landingHTML != "" {
		if pdf := CitationPDFURL(landingHTML); pdf != "" {
			return pdf
		}
	}

	return ""
}

// LooksLikeMirror reports whether host is one of the known green-OA
// mirrors, used by the enrichment pass to decide whether a fallback fetch
// is worth attempting at all.
func LooksLikeMirror(host string) bool {
	for _, m := range mirrorHosts {
		if strings.Contains(host, strings.SplitN(m, "/", 2)[0]) {
			return true
		}
	}
	return false
}
