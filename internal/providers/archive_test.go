package providers

import (
	"context"
	"testing"
)

func TestWaybackSearchSkipsHeaderRow(t *testing.T) {
	body := `[["urlkey","timestamp","original"],["com,example)/page","20240101000000","https://example.com/page"]]`
	w := NewWayback(newFakeFetcher(body))
	items, err := w.Search(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item (header row skipped), got %d", len(items))
	}
	want := "https://web.archive.org/web/20240101000000/https://example.com/page"
	if items[0].URL != want {
		t.Fatalf("unexpected URL: got %q want %q", items[0].URL, want)
	}
}

func TestWaybackSearchReturnsNilWhenOnlyHeaderRow(t *testing.T) {
	body := `[["timestamp","original"]]`
	w := NewWayback(newFakeFetcher(body))
	items, err := w.Search(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestArchiveURLForBuildsDirectLink(t *testing.T) {
	got := ArchiveURLFor("https://example.com/article")
	if got != "https://web.archive.org/web/2024/https://example.com/article" {
		t.Fatalf("unexpected URL: %q", got)
	}
}

func TestUnpaywallSearchPrefersPDFLink(t *testing.T) {
	body := `{"is_oa":true,"title":"An Open Paper","best_oa_location":{"url":"https://host.example/landing","url_for_pdf":"https://host.example/paper.pdf"}}`
	u := NewUnpaywall(newFakeFetcher(body), "research@example.com")
	items, err := u.Search(context.Background(), "10.1234/abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://host.example/paper.pdf" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if !items[0].IsPrimarySource {
		t.Fatal("expected unpaywall hits marked as primary sources")
	}
}

func TestUnpaywallSearchReturnsNilWhenNotOpenAccess(t *testing.T) {
	body := `{"is_oa":false,"title":"Closed Paper"}`
	u := NewUnpaywall(newFakeFetcher(body), "research@example.com")
	items, err := u.Search(context.Background(), "10.1234/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items for closed-access DOI, got %d", len(items))
	}
}

func TestEDGARSearchBuildsDisplayNameTitle(t *testing.T) {
	body := `{"hits":{"hits":[{"_source":{"display_names":["ACME CORP"],"form_type":"10-K","file_date":"2024-02-01"},"_id":"abc123"}]}}`
	e := NewEDGAR(newFakeFetcher(body))
	items, err := e.Search(context.Background(), "acme annual report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "ACME CORP 10-K" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if !items[0].IsPrimarySource {
		t.Fatal("expected EDGAR results marked as primary sources")
	}
}
