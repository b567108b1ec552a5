package providers

import (
	"context"
	"testing"
)

func TestWorldBankSearchFlattensDocumentsAndSkipsFacets(t *testing.T) {
	body := `{"documents":{"facets":{"ignored":true},"123":{"display_title":"World Development Report","url":"https://documents.worldbank.org/123"}}}`
	w := NewWorldBank(newFakeFetcher(body))
	items, err := w.Search(context.Background(), "poverty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item (facets skipped), got %d", len(items))
	}
	if items[0].Title != "World Development Report" {
		t.Fatalf("unexpected title: %q", items[0].Title)
	}
}

func TestWorldBankSearchSkipsDocumentsMissingFields(t *testing.T) {
	body := `{"documents":{"1":{"display_title":"","url":""}}}`
	w := NewWorldBank(newFakeFetcher(body))
	items, err := w.Search(context.Background(), "poverty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected 0 items for incomplete record, got %d", len(items))
	}
}

func TestOECDSearchParsesResults(t *testing.T) {
	body := `{"results":[{"title":"GDP Outlook","url":"https://oecd.org/gdp"}]}`
	o := NewOECD(newFakeFetcher(body))
	items, err := o.Search(context.Background(), "gdp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || !items[0].IsPrimarySource {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFREDSearchBuildsSeriesLink(t *testing.T) {
	body := `{"seriess":[{"id":"UNRATE","title":"Unemployment Rate"}]}`
	f := NewFRED(newFakeFetcher(body), "testkey")
	items, err := f.Search(context.Background(), "unemployment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].URL != "https://fred.stlouisfed.org/series/UNRATE" {
		t.Fatalf("unexpected URL: %q", items[0].URL)
	}
}

func TestEurostatSearchParsesLinkItems(t *testing.T) {
	body := `{"link":{"item":[{"label":"Inflation rate","href":"https://ec.europa.eu/eurostat/inflation"}]}}`
	e := NewEurostat(newFakeFetcher(body))
	items, err := e.Search(context.Background(), "inflation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].CredibilityScore != 0.88 {
		t.Fatalf("unexpected items: %+v", items)
	}
}
