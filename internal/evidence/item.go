// Package evidence holds the data model shared by every EATC component:
// the evidence item, the paraphrase cluster, and the per-run context that is
// threaded through the pipeline instead of living behind package globals.
package evidence

import "time"

// Stance captures the detected position of an item's claim relative to the
// rest of its cluster.
type Stance string

const (
	StanceSupports Stance = "supports"
	StanceDisputes Stance = "disputes"
	StanceNeutral  Stance = "neutral"
)

// FailureMode records why an item never made it into the final bundle, or
// why it did (FailureKept). Providers and pipeline stages set this on items
// they discard so callers can explain a run's attrition without re-deriving
// it from logs.
type FailureMode string

const (
	FailureFetchBlocked    FailureMode = "fetch_blocked"
	FailureParseEmpty      FailureMode = "parse_empty"
	FailureDuplicate       FailureMode = "duplicate"
	FailureOffTopic        FailureMode = "off_topic"
	FailureContradictedDrop FailureMode = "contradicted_drop"
	FailureKept            FailureMode = "kept"
)

// Item is the primary entity of the bundle: one piece of corroborating (or
// contradicting) evidence pulled from a single provider. Optional fields are
// zero-valued when absent rather than modeled with pointers, except where a
// pointer is needed to distinguish "unknown" from "zero" (Date, Confidence
// inputs computed later). Composition, not inheritance: every provider
// adapter builds one of these directly, there is no base "raw item" type
// adapters subclass.
type Item struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	Provider      string `json:"provider"`
	SourceDomain  string `json:"source_domain"`

	Date     *time.Time `json:"date,omitempty"`
	Author   string     `json:"author,omitempty"`
	DOI      string     `json:"doi,omitempty"`
	PMID     string     `json:"pmid,omitempty"`
	ArxivID  string     `json:"arxiv_id,omitempty"`
	QuoteSpan string    `json:"quote_span,omitempty"`
	ContentHash string  `json:"content_hash,omitempty"`

	Reachability     float64 `json:"reachability,omitempty"`
	IsPrimarySource  bool    `json:"is_primary_source,omitempty"`
	CredibilityScore float64 `json:"credibility_score"`
	RelevanceScore   float64 `json:"relevance_score"`
	Confidence       float64 `json:"confidence"`
	Stance           Stance  `json:"stance,omitempty"`
	Triangulated     bool    `json:"triangulated,omitempty"`
	Licensing        string  `json:"licensing,omitempty"`

	DisputedBy       []string `json:"disputed_by,omitempty"`
	ControversyScore float64  `json:"controversy_score,omitempty"`

	CollectedAt time.Time         `json:"collected_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// Failure is not part of the persisted bundle shape (it is only set on
	// items that get dropped before serialization); omitted from JSON.
	Failure FailureMode `json:"-"`
}

// EnsureSnippet applies the fallback chain from SPEC_FULL §3: extracted
// text, then provided snippet, then title. Called once after content fetch,
// before the item is handed to the deduper.
func (it *Item) EnsureSnippet(extracted string) {
	switch {
	case extracted != "":
		it.Snippet = extracted
	case it.Snippet != "":
		// keep provider-supplied snippet
	default:
		it.Snippet = it.Title
	}
}

// BestText returns the text later stages compare and cluster on: the quote
// span when present, else the snippet, else the title.
func (it *Item) BestText() string {
	if it.QuoteSpan != "" {
		return it.QuoteSpan
	}
	if it.Snippet != "" {
		return it.Snippet
	}
	return it.Title
}
