// Package providers holds one adapter per upstream data source. Every
// adapter is a small struct exposing a single Search capability
// (scheduler.Provider) plus whatever config/credentials it needs —
// composition over inheritance, per the source system's Design Note §9:
// there is no shared "BaseProvider" type adapters extend, only a shared
// *httpx.Client they each hold a reference to.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/httpx"
	"github.com/corrobor8/eatc/internal/normalize"
)

// fetcher is the subset of *httpx.Client every adapter needs, kept as an
// interface so adapters are unit-testable against a fake.
type fetcher interface {
	GetText(ctx context.Context, url string, extraHeaders map[string]string) httpx.Result
}

// degradeQuery produces a shorter fallback query when a provider's first
// call returns zero results, per spec.md §4.2's query-degradation rule:
// strip the quote marks (keeping the quoted words), then keep only the
// first four words.
func degradeQuery(topic string) string {
	unquoted := strings.ReplaceAll(topic, `"`, "")
	fields := strings.Fields(unquoted)
	if len(fields) <= 4 {
		return unquoted
	}
	return strings.Join(fields[:4], " ")
}

// searchWithDegradation runs call once, and if it returns no items tries
// again with a degraded query, per the shared fan-out contract every
// keyword-search-style adapter follows. An HTTP 400 is never propagated:
// it instead drives its own narrower ladder (title-only, then
// abstract-only) before the adapter gives up and reports no items.
func searchWithDegradation(ctx context.Context, topic string, call func(context.Context, string) ([]*evidence.Item, error)) ([]*evidence.Item, error) {
	items, err := call(ctx, topic)
	if err != nil {
		if isBadRequest(err) {
			return retryOnBadRequest(ctx, topic, call)
		}
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}
	degraded := degradeQuery(topic)
	if degraded == topic {
		return items, nil
	}
	return call(ctx, degraded)
}

// retryOnBadRequest implements the HTTP-400 query-degradation ladder:
// title-only, then abstract-only, then give up silently.
func retryOnBadRequest(ctx context.Context, topic string, call func(context.Context, string) ([]*evidence.Item, error)) ([]*evidence.Item, error) {
	for _, narrowed := range []string{titleOnlyQuery(topic), abstractOnlyQuery(topic)} {
		items, err := call(ctx, narrowed)
		if err == nil {
			return items, nil
		}
		if !isBadRequest(err) {
			return nil, err
		}
	}
	return nil, nil
}

func newItem(provider, rawURL, title, snippet string) *evidence.Item {
	return &evidence.Item{
		ID:           uuidLike(provider, rawURL),
		URL:          rawURL,
		Title:        title,
		Snippet:      snippet,
		Provider:     provider,
		SourceDomain: normalize.SourceDomain(rawURL),
		CollectedAt:  time.Now().UTC(),
		Metadata:     map[string]string{},
	}
}

// uuidLike builds a stable per-item identifier from the provider name and
// URL without importing a UUID package into every adapter file. No later
// stage replaces it, so this provider:URL string is the ID written to
// evidence_cards.jsonl; items never carry RFC-4122 UUIDs.
func uuidLike(provider, rawURL string) string {
	return provider + ":" + rawURL
}

func fetchJSON(ctx context.Context, f fetcher, rawURL string, out interface{}) error {
	res := f.GetText(ctx, rawURL, nil)
	if res.Kind != httpx.Fetched {
		return newStatusError(res.Status, fmt.Errorf("fetch %s: %s", rawURL, res.Kind))
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func queryEscape(s string) string { return url.QueryEscape(s) }

func decodeJSON(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
