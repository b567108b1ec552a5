package providers

import (
	"context"
	"fmt"

	"github.com/corrobor8/eatc/internal/evidence"
)

// Wikipedia queries the MediaWiki search API. No credential required.
type Wikipedia struct{ client fetcher }

func NewWikipedia(client fetcher) *Wikipedia { return &Wikipedia{client: client} }

func (w *Wikipedia) Name() string { return "wikipedia" }

type wikipediaSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			PageID  int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

func (w *Wikipedia) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf(
			"https://en.wikipedia.org/w/api.php?action=query&list=search&format=json&srsearch=%s&srlimit=8",
			queryEscape(q),
		)
		var resp wikipediaSearchResponse
		if err := fetchJSON(ctx, w.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Query.Search))
		for _, r := range resp.Query.Search {
			pageURL := fmt.Sprintf("https://en.wikipedia.org/wiki/%s", queryEscape(r.Title))
			it := newItem(w.Name(), pageURL, r.Title, stripHTML(r.Snippet))
			it.CredibilityScore = 0.72
			items = append(items, it)
		}
		return items, nil
	})
}

// Wikidata queries the wbsearchentities API for structured-entity hits,
// useful as a secondary corroboration source alongside free-text Wikipedia.
type Wikidata struct{ client fetcher }

func NewWikidata(client fetcher) *Wikidata { return &Wikidata{client: client} }

func (w *Wikidata) Name() string { return "wikidata" }

type wikidataSearchResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

func (w *Wikidata) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf(
			"https://www.wikidata.org/w/api.php?action=wbsearchentities&language=en&format=json&search=%s&limit=8",
			queryEscape(q),
		)
		var resp wikidataSearchResponse
		if err := fetchJSON(ctx, w.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Search))
		for _, r := range resp.Search {
			entityURL := "https://www.wikidata.org/wiki/" + r.ID
			it := newItem(w.Name(), entityURL, r.Label, r.Description)
			it.CredibilityScore = 0.65
			items = append(items, it)
		}
		return items, nil
	})
}

func stripHTML(s string) string {
	out := make([]byte, 0, len(s))
	inTag := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				out = append(out, s[i])
			}
		}
	}
	return string(out)
}
