package httpx

import "testing"

func TestIsBlockedPath(t *testing.T) {
	cases := map[string]bool{
		"/articles/my-story":     false,
		"/account/login":         true,
		"/subscribe":             true,
		"/news/subscribe-now":    false,
		"/SIGNIN":                false,
	}
	for path, want := range cases {
		if got := IsBlockedPath(path); got != want {
			t.Errorf("IsBlockedPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsCloudflareChallenge(t *testing.T) {
	headers := map[string]string{"Server": "cloudflare"}
	body := []byte("<html>Just a moment...</html>")
	if !IsCloudflareChallenge(headers, body) {
		t.Fatal("expected cloudflare interstitial to be detected")
	}

	if IsCloudflareChallenge(map[string]string{"Server": "nginx"}, body) {
		t.Fatal("non-cloudflare server header should not trigger detection even with matching body text")
	}
}

func TestLooksGated(t *testing.T) {
	if !LooksGated(403, nil) {
		t.Fatal("403 status should always be treated as gated")
	}
	if !LooksGated(200, []byte("Please subscribe to continue reading")) {
		t.Fatal("200 response with gating body text should be treated as gated")
	}
	if LooksGated(200, []byte("a perfectly normal article")) {
		t.Fatal("ordinary 200 article body should not be flagged gated")
	}
}
