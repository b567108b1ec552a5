package httpx

import (
	"net/url"
	"regexp"
	"strings"
)

// sensitiveParamNames are the query-parameter and header names SPEC_FULL §4.1
// requires masked before anything reaches a log artifact. The matching
// idiom (a compiled pattern list scanned in order, replace-in-place) is
// adapted from the other_examples anonymizing-proxy's PII pattern table —
// the same "one compiled regex per concern, short-circuit on first match"
// shape, here applied to secrets instead of personal data.
var sensitiveParamNames = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"token":         true,
	"key":           true,
	"signature":     true,
	"secret":        true,
	"password":      true,
	"authorization": true,
}

// knownAPIKeyPattern catches key-shaped secrets (an sk-, pk- or key- prefix,
// or the same with an underscore, followed by 16+ alphanumerics) embedded
// directly in a URL or header value even when the parameter name itself
// doesn't match. A value without such a prefix under an unlisted parameter
// name (e.g. a hex `X-Amz-Signature`) is not caught.
var knownAPIKeyPattern = regexp.MustCompile(`(?i)\b(sk|pk|key)[-_][A-Za-z0-9]{16,}\b`)

const redactedPlaceholder = "***REDACTED***"

// RedactURL masks sensitive query parameters in a URL before it is written
// to any log line, satisfying invariant 6 in spec.md §8.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redactFreeText(raw)
	}
	q := u.Query()
	changed := false
	for key := range q {
		if sensitiveParamNames[strings.ToLower(key)] {
			q.Set(key, redactedPlaceholder)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return redactFreeText(u.String())
}

// RedactHeaders returns a copy of headers with sensitive values masked.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitiveParamNames[strings.ToLower(k)] {
			out[k] = redactedPlaceholder
			continue
		}
		out[k] = redactFreeText(v)
	}
	return out
}

// redactFreeText scrubs any residual API-key-shaped substrings from text
// that isn't structured as a URL or header map (e.g. a raw log line).
func redactFreeText(s string) string {
	return knownAPIKeyPattern.ReplaceAllString(s, redactedPlaceholder)
}
