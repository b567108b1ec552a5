package providers

import (
	"context"
	"fmt"

	"github.com/corrobor8/eatc/internal/evidence"
)

// WorldBank queries the Documents & Reports (WDS) search endpoint for
// published reports, treated as a primary source per spec.md §3.
type WorldBank struct{ client fetcher }

func NewWorldBank(client fetcher) *WorldBank { return &WorldBank{client: client} }

func (w *WorldBank) Name() string { return "worldbank" }

func (w *WorldBank) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://search.worldbank.org/api/v3/wds?format=json&qterm=%s&rows=10", queryEscape(q))
		var resp map[string]interface{}
		if err := fetchJSON(ctx, w.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := flattenWDSDocuments(resp, w.Name())
		return items, nil
	})
}

// flattenWDSDocuments adapts the World Bank Documents & Reports API's
// loosely-typed "documents" object (keyed by numeric doc ID, one of which
// is a "facets" sibling key) into items, tolerating the schema's
// inconsistency rather than failing the whole adapter on one odd record.
func flattenWDSDocuments(resp map[string]interface{}, provider string) []*evidence.Item {
	docsRaw, ok := resp["documents"].(map[string]interface{})
	if !ok {
		return nil
	}
	var items []*evidence.Item
	for key, v := range docsRaw {
		if key == "facets" {
			continue
		}
		doc, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		title, _ := doc["display_title"].(string)
		url, _ := doc["url"].(string)
		if url == "" || title == "" {
			continue
		}
		it := newItem(provider, url, title, "")
		it.CredibilityScore = 0.9
		it.IsPrimarySource = true
		items = append(items, it)
	}
	return items
}

// OECD queries OECD's full-text search endpoint over published reports;
// the SDMX-JSON data API is not used.
type OECD struct{ client fetcher }

func NewOECD(client fetcher) *OECD { return &OECD{client: client} }

func (o *OECD) Name() string { return "oecd" }

type oecdSearchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}

func (o *OECD) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://www.oecd.org/api/search?q=%s&limit=10", queryEscape(q))
		var resp oecdSearchResponse
		if err := fetchJSON(ctx, o.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Results))
		for _, r := range resp.Results {
			it := newItem(o.Name(), r.URL, r.Title, "")
			it.CredibilityScore = 0.9
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}

// IMF queries the imf.org site search results endpoint.
type IMF struct{ client fetcher }

func NewIMF(client fetcher) *IMF { return &IMF{client: client} }

func (i *IMF) Name() string { return "imf" }

type imfSearchResponse struct {
	Results []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"results"`
}

func (i *IMF) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://www.imf.org/external/search/searchresults.aspx?q=%s&format=json", queryEscape(q))
		var resp imfSearchResponse
		if err := fetchJSON(ctx, i.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Results))
		for _, r := range resp.Results {
			it := newItem(i.Name(), r.Link, r.Title, "")
			it.CredibilityScore = 0.9
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}

// Eurostat queries the SDMX REST search endpoint for EU statistical
// releases.
type Eurostat struct{ client fetcher }

func NewEurostat(client fetcher) *Eurostat { return &Eurostat{client: client} }

func (e *Eurostat) Name() string { return "eurostat" }

type eurostatSearchResponse struct {
	Link struct {
		Item []struct {
			Label string `json:"label"`
			Href  string `json:"href"`
		} `json:"item"`
	} `json:"link"`
}

func (e *Eurostat) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf(
			"https://ec.europa.eu/eurostat/api/dissemination/sdmx/2.1/dataflow/ESTAT/all?search=%s&format=json",
			queryEscape(q))
		var resp eurostatSearchResponse
		if err := fetchJSON(ctx, e.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Link.Item))
		for _, r := range resp.Link.Item {
			it := newItem(e.Name(), r.Href, r.Label, "")
			it.CredibilityScore = 0.88
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}

// FRED queries the St. Louis Fed's series search endpoint. Requires an API
// key (config.HasKey("fred")); callers should skip constructing this
// adapter when no key is configured.
type FRED struct {
	client fetcher
	apiKey string
}

func NewFRED(client fetcher, apiKey string) *FRED { return &FRED{client: client, apiKey: apiKey} }

func (f *FRED) Name() string { return "fred" }

type fredSearchResponse struct {
	Seriess []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"seriess"`
}

func (f *FRED) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf(
			"https://api.stlouisfed.org/fred/series/search?search_text=%s&api_key=%s&file_type=json",
			queryEscape(q), f.apiKey)
		var resp fredSearchResponse
		if err := fetchJSON(ctx, f.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Seriess))
		for _, r := range resp.Seriess {
			link := "https://fred.stlouisfed.org/series/" + r.ID
			it := newItem(f.Name(), link, r.Title, "")
			it.CredibilityScore = 0.9
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}
