package providers

import (
	"context"
	"testing"
)

func TestOpenAlexSearchPrefersOpenAccessURL(t *testing.T) {
	body := `{"results":[{"id":"https://openalex.org/W1","title":"A Paper","doi":"10.1/xyz","publication_date":"2024-01-01","open_access":{"is_oa":true,"oa_url":"https://oa.example.com/w1.pdf"}}]}`
	oa := NewOpenAlex(newFakeFetcher(body), "research@example.com")
	items, err := oa.Search(context.Background(), "climate policy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].URL != "https://oa.example.com/w1.pdf" {
		t.Fatalf("expected OA url preferred, got %q", items[0].URL)
	}
	if !items[0].IsPrimarySource {
		t.Fatal("expected OpenAlex results marked as primary sources")
	}
}

func TestCrossrefSearchFallsBackToDOIURL(t *testing.T) {
	body := `{"message":{"items":[{"DOI":"10.1/abc","title":["Some Title"],"URL":""}]}}`
	c := NewCrossref(newFakeFetcher(body))
	items, err := c.Search(context.Background(), "topic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].URL != "https://doi.org/10.1/abc" {
		t.Fatalf("expected DOI fallback URL, got %q", items[0].URL)
	}
}

func TestPubMedSearchBuildsPMIDLinks(t *testing.T) {
	body := `{"esearchresult":{"idlist":["123456"]}}`
	p := NewPubMed(newFakeFetcher(body))
	items, err := p.Search(context.Background(), "vaccine efficacy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].PMID != "123456" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].URL != "https://pubmed.ncbi.nlm.nih.gov/123456/" {
		t.Fatalf("unexpected URL: %q", items[0].URL)
	}
}

func TestPubMedSearchReturnsNoItemsOnEmptyIDList(t *testing.T) {
	body := `{"esearchresult":{"idlist":[]}}`
	p := NewPubMed(newFakeFetcher(body))
	items, err := p.Search(context.Background(), "short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestEuropePMCSearchFallsBackToIDLinkWhenNoPMID(t *testing.T) {
	body := `{"resultList":{"result":[{"id":"PPR123","title":"Preprint","doi":"","pmid":"","isOpenAccess":"Y"}]}}`
	e := NewEuropePMC(newFakeFetcher(body))
	items, err := e.Search(context.Background(), "topic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].URL != "https://europepmc.org/abstract/PPR123" {
		t.Fatalf("expected ID-based fallback URL, got %q", items[0].URL)
	}
	if !items[0].IsPrimarySource {
		t.Fatal("expected open-access record to be marked primary")
	}
}

func TestArxivSearchParsesAtomFeed(t *testing.T) {
	body := `<feed xmlns="http://www.w3.org/2005/Atom">
<entry>
<title>Attention Is All You Need</title>
<id>http://arxiv.org/abs/1706.03762v5</id>
<link href="http://arxiv.org/abs/1706.03762v5" rel="alternate"/>
<link href="http://arxiv.org/pdf/1706.03762v5" rel="related" title="pdf"/>
</entry>
</feed>`
	a := NewArxiv(newFakeFetcher(body))
	items, err := a.Search(context.Background(), "transformer architecture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].URL != "http://arxiv.org/abs/1706.03762v5" {
		t.Fatalf("expected alternate link preferred, got %q", items[0].URL)
	}
	if !items[0].IsPrimarySource {
		t.Fatal("expected arxiv results marked as primary sources")
	}
}
