package providers

import (
	"context"
	"testing"

	"github.com/corrobor8/eatc/internal/httpx"
)

func TestTavilySearchParsesResults(t *testing.T) {
	body := `{"results":[{"title":"Result One","url":"https://example.com/one","content":"summary text"}]}`
	tv := NewTavily(newFakeFetcher(body), "testkey")
	items, err := tv.Search(context.Background(), "global markets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Snippet != "summary text" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestBraveSearchUsesHeaderAuth(t *testing.T) {
	body := `{"web":{"results":[{"title":"Brave Hit","url":"https://example.com/brave","description":"a description"}]}}`
	b := NewBrave(newFakeFetcher(body), "testkey")
	items, err := b.Search(context.Background(), "weather forecast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].CredibilityScore != 0.55 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestBraveSearchReturnsErrorWhenGated(t *testing.T) {
	b := NewBrave(failingFetcher{kind: httpx.Gated}, "testkey")
	_, err := b.Search(context.Background(), "weather forecast")
	if err == nil {
		t.Fatal("expected an error when the upstream fetch fails")
	}
}

func TestSerperSearchParsesOrganicResults(t *testing.T) {
	body := `{"organic":[{"title":"Serper Hit","link":"https://example.com/serper","snippet":"snippet text"}]}`
	s := NewSerper(newFakeFetcher(body), "testkey")
	items, err := s.Search(context.Background(), "economic outlook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Provider != "serper" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestSerpAPISearchParsesOrganicResults(t *testing.T) {
	body := `{"organic_results":[{"title":"SerpAPI Hit","link":"https://example.com/serpapi","snippet":"snippet text"}]}`
	s := NewSerpAPI(newFakeFetcher(body), "testkey")
	items, err := s.Search(context.Background(), "stock prices")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].CredibilityScore != 0.5 {
		t.Fatalf("unexpected items: %+v", items)
	}
}
