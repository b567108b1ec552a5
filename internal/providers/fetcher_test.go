package providers

import (
	"context"

	"github.com/corrobor8/eatc/internal/httpx"
)

// fakeFetcher is a scripted fetcher double shared by every adapter test in
// this package; it never touches the network.
type fakeFetcher struct {
	bodies []string // one response body per call, in order; last one repeats
	calls  int
	kind   httpx.Kind
}

func newFakeFetcher(bodies ...string) *fakeFetcher {
	return &fakeFetcher{bodies: bodies, kind: httpx.Fetched}
}

func (f *fakeFetcher) GetText(ctx context.Context, url string, extraHeaders map[string]string) httpx.Result {
	idx := f.calls
	if idx >= len(f.bodies) {
		idx = len(f.bodies) - 1
	}
	f.calls++
	if idx < 0 {
		return httpx.Result{Kind: f.kind}
	}
	return httpx.Result{Kind: f.kind, Status: 200, Body: []byte(f.bodies[idx])}
}

type failingFetcher struct{ kind httpx.Kind }

func (f failingFetcher) GetText(ctx context.Context, url string, extraHeaders map[string]string) httpx.Result {
	return httpx.Result{Kind: f.kind, Status: 503}
}
