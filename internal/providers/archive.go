package providers

import (
	"context"
	"fmt"

	"github.com/corrobor8/eatc/internal/evidence"
)

// Wayback queries the Internet Archive's CDX API, used by the generic
// intent as a fallback tier.
type Wayback struct{ client fetcher }

func NewWayback(client fetcher) *Wayback { return &Wayback{client: client} }

func (w *Wayback) Name() string { return "wayback" }

func (w *Wayback) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	apiURL := fmt.Sprintf(
		"https://web.archive.org/cdx/search/cdx?url=%s&output=json&limit=10&filter=statuscode:200",
		queryEscape(topic))
	var rows [][]string
	if err := fetchJSON(ctx, w.client, apiURL, &rows); err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	items := make([]*evidence.Item, 0, len(rows)-1)
	for _, row := range rows[1:] { // row 0 is the CDX column header
		if len(row) < 3 {
			continue
		}
		timestamp, original := row[1], row[2]
		link := fmt.Sprintf("https://web.archive.org/web/%s/%s", timestamp, original)
		it := newItem(w.Name(), link, original, "")
		it.CredibilityScore = 0.5
		items = append(items, it)
	}
	return items, nil
}

// ArchiveURLFor builds a Wayback Machine URL for a specific original URL,
// for callers that already know the exact resource they need a cached copy
// of; no pipeline stage calls it.
func ArchiveURLFor(originalURL string) string {
	return "https://web.archive.org/web/2024/" + originalURL
}

// Unpaywall is a lookup-only capability (by DOI, not keyword search) and
// so is not registered in the router's provider tiers. The paywall
// resolver (internal/normalize.ResolveOpenAccessPDF) makes its own
// Unpaywall request and does not use this adapter.
// Its Name/Search methods exist only so it satisfies scheduler.Provider
// when a caller wants to exercise it through the same fan-out path for a
// DOI-only topic (e.g. an enrichment re-entry keyed by DOI).
type Unpaywall struct {
	client fetcher
	email  string
}

func NewUnpaywall(client fetcher, email string) *Unpaywall { return &Unpaywall{client: client, email: email} }

func (u *Unpaywall) Name() string { return "unpaywall" }

type unpaywallLookup struct {
	IsOA          bool `json:"is_oa"`
	BestOALocation *struct {
		URL       string `json:"url"`
		URLForPDF string `json:"url_for_pdf"`
	} `json:"best_oa_location"`
	Title string `json:"title"`
}

func (u *Unpaywall) Search(ctx context.Context, doi string) ([]*evidence.Item, error) {
	apiURL := fmt.Sprintf("https://api.unpaywall.org/v2/%s?email=%s", doi, queryEscape(u.email))
	var resp unpaywallLookup
	if err := fetchJSON(ctx, u.client, apiURL, &resp); err != nil {
		return nil, err
	}
	if !resp.IsOA || resp.BestOALocation == nil {
		return nil, nil
	}
	link := resp.BestOALocation.URL
	if resp.BestOALocation.URLForPDF != "" {
		link = resp.BestOALocation.URLForPDF
	}
	it := newItem(u.Name(), link, resp.Title, "")
	it.DOI = doi
	it.IsPrimarySource = true
	it.CredibilityScore = 0.85
	return []*evidence.Item{it}, nil
}

// EDGAR queries the SEC's full-text search API over filed disclosures,
// the primary source for regulatory-intent corporate topics.
type EDGAR struct{ client fetcher }

func NewEDGAR(client fetcher) *EDGAR { return &EDGAR{client: client} }

func (e *EDGAR) Name() string { return "edgar" }

type edgarSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				DisplayNames []string `json:"display_names"`
				FormType     string   `json:"form_type"`
				FileDate     string   `json:"file_date"`
			} `json:"_source"`
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *EDGAR) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://efts.sec.gov/LATEST/search-index?q=%s&forms=10-K,10-Q,8-K", queryEscape(q))
		var resp edgarSearchResponse
		if err := fetchJSON(ctx, e.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Hits.Hits))
		for _, h := range resp.Hits.Hits {
			title := h.Source.FormType
			if len(h.Source.DisplayNames) > 0 {
				title = h.Source.DisplayNames[0] + " " + h.Source.FormType
			}
			link := "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&filing=" + h.ID
			it := newItem(e.Name(), link, title, "")
			it.CredibilityScore = 0.95
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}
