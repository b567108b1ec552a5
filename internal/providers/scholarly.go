package providers

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/httpx"
)

// OpenAlex queries the scholarly-works search endpoint. Requires no key
// but a mailto contact param is added for the polite pool, per
// SPEC_FULL §4.1's identity header rules.
type OpenAlex struct {
	client       fetcher
	contactEmail string
}

func NewOpenAlex(client fetcher, contactEmail string) *OpenAlex {
	return &OpenAlex{client: client, contactEmail: contactEmail}
}

func (o *OpenAlex) Name() string { return "openalex" }

type openAlexResponse struct {
	Results []struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		DOI             string `json:"doi"`
		PublicationDate string `json:"publication_date"`
		OpenAccess      struct {
			IsOA     bool   `json:"is_oa"`
			OAURL    string `json:"oa_url"`
		} `json:"open_access"`
	} `json:"results"`
}

func (o *OpenAlex) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://api.openalex.org/works?search=%s&per-page=10&mailto=%s",
			queryEscape(q), queryEscape(o.contactEmail))
		var resp openAlexResponse
		if err := fetchJSON(ctx, o.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Results))
		for _, r := range resp.Results {
			landing := r.ID
			if r.OpenAccess.OAURL != "" {
				landing = r.OpenAccess.OAURL
			}
			it := newItem(o.Name(), landing, r.Title, "")
			it.DOI = r.DOI
			it.CredibilityScore = 0.85
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}

// Crossref queries the works search endpoint for DOI metadata.
type Crossref struct{ client fetcher }

func NewCrossref(client fetcher) *Crossref { return &Crossref{client: client} }

func (c *Crossref) Name() string { return "crossref" }

type crossrefResponse struct {
	Message struct {
		Items []struct {
			DOI   string   `json:"DOI"`
			Title []string `json:"title"`
			URL   string   `json:"URL"`
		} `json:"items"`
	} `json:"message"`
}

func (c *Crossref) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf("https://api.crossref.org/works?query=%s&rows=10", queryEscape(q))
		var resp crossrefResponse
		if err := fetchJSON(ctx, c.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.Message.Items))
		for _, r := range resp.Message.Items {
			title := ""
			if len(r.Title) > 0 {
				title = r.Title[0]
			}
			link := r.URL
			if link == "" && r.DOI != "" {
				link = "https://doi.org/" + r.DOI
			}
			it := newItem(c.Name(), link, title, "")
			it.DOI = r.DOI
			it.CredibilityScore = 0.85
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}

// PubMed uses NCBI's esearch endpoint, which returns PMIDs directly, so no
// follow-up esummary call is needed.
type PubMed struct{ client fetcher }

func NewPubMed(client fetcher) *PubMed { return &PubMed{client: client} }

func (p *PubMed) Name() string { return "pubmed" }

type pubmedSearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (p *PubMed) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		searchURL := fmt.Sprintf(
			"https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi?db=pubmed&retmode=json&retmax=10&term=%s",
			queryEscape(q))
		var search pubmedSearchResponse
		if err := fetchJSON(ctx, p.client, searchURL, &search); err != nil {
			return nil, err
		}
		if len(search.ESearchResult.IDList) == 0 {
			return nil, nil
		}
		items := make([]*evidence.Item, 0, len(search.ESearchResult.IDList))
		for _, pmid := range search.ESearchResult.IDList {
			link := "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
			it := newItem(p.Name(), link, "PubMed record "+pmid, "")
			it.PMID = pmid
			it.CredibilityScore = 0.88
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}

// EuropePMC queries the REST search endpoint, used as a secondary
// biomedical corroboration source to PubMed.
type EuropePMC struct{ client fetcher }

func NewEuropePMC(client fetcher) *EuropePMC { return &EuropePMC{client: client} }

func (e *EuropePMC) Name() string { return "europepmc" }

type europePMCResponse struct {
	ResultList struct {
		Result []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			DOI       string `json:"doi"`
			PMID      string `json:"pmid"`
			IsOpenAccess string `json:"isOpenAccess"`
		} `json:"result"`
	} `json:"resultList"`
}

func (e *EuropePMC) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf(
			"https://www.ebi.ac.uk/europepmc/webservices/rest/search?query=%s&format=json&pageSize=10",
			queryEscape(q))
		var resp europePMCResponse
		if err := fetchJSON(ctx, e.client, apiURL, &resp); err != nil {
			return nil, err
		}
		items := make([]*evidence.Item, 0, len(resp.ResultList.Result))
		for _, r := range resp.ResultList.Result {
			link := "https://europepmc.org/article/MED/" + r.PMID
			if r.PMID == "" {
				link = "https://europepmc.org/abstract/" + r.ID
			}
			it := newItem(e.Name(), link, r.Title, "")
			it.DOI = r.DOI
			it.PMID = r.PMID
			it.CredibilityScore = 0.82
			it.IsPrimarySource = r.IsOpenAccess == "Y"
			items = append(items, it)
		}
		return items, nil
	})
}

// Arxiv queries the Atom-feed search API and must be throttled to one
// request every 3 seconds per arXiv's published API etiquette — the
// pipeline sets that via httpx.Client.SetMinInterval("export.arxiv.org", 3*time.Second).
// Its response is Atom XML rather than JSON, so it calls GetText directly
// instead of going through fetchJSON.
type Arxiv struct{ client fetcher }

func NewArxiv(client fetcher) *Arxiv { return &Arxiv{client: client} }

func (a *Arxiv) Name() string { return "arxiv" }

type arxivFeed struct {
	Entries []struct {
		Title string `xml:"title"`
		ID    string `xml:"id"`
		Link  []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

func (a *Arxiv) Search(ctx context.Context, topic string) ([]*evidence.Item, error) {
	return searchWithDegradation(ctx, topic, func(ctx context.Context, q string) ([]*evidence.Item, error) {
		apiURL := fmt.Sprintf(
			"http://export.arxiv.org/api/query?search_query=all:%s&max_results=10", queryEscape(q))
		res := a.client.GetText(ctx, apiURL, nil)
		if res.Kind != httpx.Fetched {
			return nil, fmt.Errorf("arxiv fetch: %s", res.Kind)
		}
		var feed arxivFeed
		if err := xml.Unmarshal(res.Body, &feed); err != nil {
			return nil, fmt.Errorf("decode arxiv feed: %w", err)
		}
		items := make([]*evidence.Item, 0, len(feed.Entries))
		for _, e := range feed.Entries {
			link := e.ID
			for _, l := range e.Link {
				if l.Rel == "alternate" {
					link = l.Href
				}
			}
			it := newItem(a.Name(), link, e.Title, "")
			it.ArxivID = e.ID
			it.CredibilityScore = 0.75
			it.IsPrimarySource = true
			items = append(items, it)
		}
		return items, nil
	})
}
