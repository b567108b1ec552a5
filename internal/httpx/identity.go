package httpx

import "strings"

// Identity builds the default product User-Agent carrying a contact email,
// required by several upstreams (OpenAlex, Crossref, Unpaywall, ...). Every
// request gets it unless a per-domain override replaces or extends it.
func DefaultUserAgent(contactEmail string) string {
	return "EATC-research-core/1.0 (mailto:" + contactEmail + ")"
}

// domainHeaderOverride describes a per-domain identity requirement from
// SPEC_FULL §4.1: SEC-style domains want an operator-identified User-Agent
// plus identity encoding, some newsroom hosts require a specific Referer,
// SDMX statistical endpoints require a JSON Accept header.
type domainHeaderOverride struct {
	match   func(host string) bool
	headers func(contactEmail string) map[string]string
}

var domainOverrides = []domainHeaderOverride{
	{
		match: func(host string) bool { return strings.HasSuffix(host, "sec.gov") },
		headers: func(email string) map[string]string {
			return map[string]string{
				"User-Agent":      "EATC research-core " + email,
				"Accept-Encoding": "identity",
			}
		},
	},
	{
		match: func(host string) bool {
			return strings.Contains(host, "oecd.org") || strings.Contains(host, "imf.org") ||
				strings.Contains(host, "eurostat") || strings.Contains(host, "worldbank.org")
		},
		headers: func(email string) map[string]string {
			return map[string]string{"Accept": "application/json"}
		},
	},
	{
		match: func(host string) bool { return strings.Contains(host, "nytimes.com") || strings.Contains(host, "wsj.com") },
		headers: func(email string) map[string]string {
			return map[string]string{"Referer": "https://www.google.com/"}
		},
	},
}

// HeadersFor merges the default identity header with any per-domain
// override for host, returning the full header set to apply to a request.
func HeadersFor(host, contactEmail string) map[string]string {
	headers := map[string]string{"User-Agent": DefaultUserAgent(contactEmail)}
	for _, ov := range domainOverrides {
		if ov.match(host) {
			for k, v := range ov.headers(contactEmail) {
				headers[k] = v
			}
		}
	}
	return headers
}
