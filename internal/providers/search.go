package providers

import (
	"context"
	"fmt"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/httpx"
)

// tavilyClient is the capability every commercial search adapter in this
// file needs: plain GET with optional extra headers (for adapters that
// authenticate via header rather than query string).
type tavilyClient interface {
	GetText(ctx context.Context, url string, extraHeaders map[string]string) httpx.Result
}

// TavilyAdapter is a search API built for LLM/agent consumption, used as
// the general-web-search primary tier for news/product/howto intents.
// Requires an API key.
type TavilyAdapter struct {
	client tavilyClient
	apiKey string
}

func NewTavily(client tavilyClient, apiKey string) *TavilyAdapter {
	return &TavilyAdapter{client: client, apiKey: apiKey}
}

func (t *TavilyAdapter) Name() string { return "tavily" }

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (t *TavilyAdapter) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://api.tavily.com/search?api_key=%s&query=%s&max_results=10", t.apiKey, queryEscape(q))
		var resp tavilyResponse
		if err := fetchJSON(ctx, t.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Results))
		for _, r := range resp.Results {
			it := newItem(t.Name(), r.URL, r.Title, r.Content)
			it.CredibilityScore = 0.55
			items = append(items, it)
		}
		return items, nil
	})
}

// Brave wraps the Brave Search API, used as a secondary general-web-search
// tier that does not share Tavily's index/ranking biases.
type Brave struct {
	client tavilyClient
	apiKey string
}

func NewBrave(client tavilyClient, apiKey string) *Brave { return &Brave{client: client, apiKey: apiKey} }

func (b *Brave) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (b *Brave) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=10", queryEscape(q))
		headers := map[string]string{"X-Subscription-Token": b.apiKey}
		res := b.client.GetText(ctx, apiURL, headers)
		if res.Kind != httpx.Fetched {
			return nil, fmt.Errorf("brave fetch: %s", res.Kind)
		}
		var resp braveResponse
		if err := decodeJSON(res.Body, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Web.Results))
		for _, r := range resp.Web.Results {
			it := newItem(b.Name(), r.URL, r.Title, r.Description)
			it.CredibilityScore = 0.55
			items = append(items, it)
		}
		return items, nil
	})
}

// Serper wraps the Serper.dev Google-results proxy, routed as a primary,
// secondary or fallback tier depending on intent; it is called in the same
// fan-out as Tavily/Brave, not only after they return nothing.
type Serper struct {
	client tavilyClient
	apiKey string
}

func NewSerper(client tavilyClient, apiKey string) *Serper { return &Serper{client: client, apiKey: apiKey} }

func (s *Serper) Name() string { return "serper" }

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://google.serper.dev/search?q=%s", queryEscape(q))
		headers := map[string]string{"X-API-KEY": s.apiKey}
		res := s.client.GetText(ctx, apiURL, headers)
		if res.Kind != httpx.Fetched {
			return nil, fmt.Errorf("serper fetch: %s", res.Kind)
		}
		var resp serperResponse
		if err := decodeJSON(res.Body, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Organic))
		for _, r := range resp.Organic {
			it := newItem(s.Name(), r.Link, r.Title, r.Snippet)
			it.CredibilityScore = 0.5
			items = append(items, it)
		}
		return items, nil
	})
}

// SerpAPI wraps serpapi.com's Google results proxy, routed for the
// encyclopedia, news, product, howto and generic intents only.
type SerpAPI struct {
	client fetcher
	apiKey string
}

func NewSerpAPI(client fetcher, apiKey string) *SerpAPI { return &SerpAPI{client: client, apiKey: apiKey} }

func (s *SerpAPI) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (s *SerpAPI) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://serpapi.com/search.json?q=%s&api_key=%s", queryEscape(q), s.apiKey)
		var resp serpAPIResponse
		if err := fetchJSON(ctx, s.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.OrganicResults))
		for _, r := range resp.OrganicResults {
			it := newItem(s.Name(), r.Link, r.Title, r.Snippet)
			it.CredibilityScore = 0.5
			items = append(items, it)
		}
		return items, nil
	})
}
