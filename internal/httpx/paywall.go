package httpx

import "strings"

// blockedPathSuffixes are known login/subscribe path suffixes rejected
// early, before a request is even issued (SPEC_FULL §4.1).
var blockedPathSuffixes = []string{
	"/login",
	"/signin",
	"/subscribe",
	"/account/login",
	"/paywall",
}

func IsBlockedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range blockedPathSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// cloudflareChallengeSignatures detect the "Just a moment..." interstitial
// so it is never mistaken for article content.
var cloudflareChallengeSignatures = []string{
	"Just a moment...",
	"cf-browser-verification",
	"Checking your browser before accessing",
}

func IsCloudflareChallenge(headers map[string]string, body []byte) bool {
	if headers["Server"] == "cloudflare" || headers["server"] == "cloudflare" {
		bodyStr := string(body)
		for _, sig := range cloudflareChallengeSignatures {
			if strings.Contains(bodyStr, sig) {
				return true
			}
		}
	}
	return false
}

// gatedBodySignals are substrings indicating a subscription/login wall even
// on a 200 response, used by the paywall resolver in C5.
var gatedBodySignals = []string{
	"subscribe to continue",
	"subscription required",
	"please log in to continue",
	"this content is for subscribers",
	"paywall",
}

func LooksGated(status int, body []byte) bool {
	if status == 401 || status == 402 || status == 403 {
		return true
	}
	lower := strings.ToLower(string(body))
	for _, sig := range gatedBodySignals {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
