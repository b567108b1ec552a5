package normalize

import "testing"

func TestQuoteSpanPicksMostRelevantSentence(t *testing.T) {
	body := "The city council met on Tuesday. Inflation in the region rose 3.2 percent this quarter. The mayor praised the local fire department."
	span := QuoteSpan(body, "inflation region quarter")
	if !contains(span, "Inflation") {
		t.Fatalf("expected the inflation sentence to be selected, got %q", span)
	}
}

func TestQuoteSpanTruncatesLongSentence(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	span := QuoteSpan(long+".", "word")
	if len(span) > maxQuoteSpanLen+len("…") {
		t.Fatalf("expected quote span to be truncated, got length %d", len(span))
	}
}

func TestQuoteSpanEmptyBody(t *testing.T) {
	if got := QuoteSpan("", "topic"); got != "" {
		t.Fatalf("expected empty span for empty body, got %q", got)
	}
}
