package httpx

import (
	"bufio"
	"net/http"
	"strings"
	"sync"
	"time"
)

// publicReportAllowlist bypasses the robots check for hosts known to serve
// public statistical/treaty-organization reports that would otherwise be
// blocked by an overly broad robots.txt aimed at commercial scrapers.
var publicReportAllowlist = map[string]bool{
	"unwto.org":        true,
	"worldbank.org":    true,
	"oecd.org":         true,
	"imf.org":          true,
	"ec.europa.eu":     true,
	"who.int":          true,
}

type robotsEntry struct {
	disallow []string
	fetchedAt time.Time
}

// RobotsCache fetches /robots.txt once per host with a short timeout. On a
// parse failure or non-200 response it assumes allow, per SPEC_FULL §4.1.
type RobotsCache struct {
	mu      sync.Mutex
	entries map[string]*robotsEntry
	client  *http.Client
	userAgent string
}

func NewRobotsCache(userAgent string) *RobotsCache {
	return &RobotsCache{
		entries:   make(map[string]*robotsEntry),
		client:    &http.Client{Timeout: 3 * time.Second},
		userAgent: userAgent,
	}
}

// Allowed reports whether path may be fetched from host.
func (r *RobotsCache) Allowed(host, path string) bool {
	if publicReportAllowlist[host] {
		return true
	}

	r.mu.Lock()
	entry, ok := r.entries[host]
	r.mu.Unlock()
	if !ok {
		entry = r.fetch(host)
		r.mu.Lock()
		r.entries[host] = entry
		r.mu.Unlock()
	}

	for _, d := range entry.disallow {
		if d != "" && strings.HasPrefix(path, d) {
			return false
		}
	}
	return true
}

func (r *RobotsCache) fetch(host string) *robotsEntry {
	entry := &robotsEntry{fetchedAt: time.Now()}
	req, err := http.NewRequest(http.MethodGet, "https://"+host+"/robots.txt", nil)
	if err != nil {
		return entry
	}
	req.Header.Set("User-Agent", r.userAgent)
	resp, err := r.client.Do(req)
	if err != nil {
		return entry
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return entry
	}

	scanner := bufio.NewScanner(resp.Body)
	applies := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "user-agent:"):
			ua := strings.TrimSpace(line[len("user-agent:"):])
			applies = ua == "*" || strings.EqualFold(ua, r.userAgent)
		case strings.HasPrefix(lower, "disallow:") && applies:
			path := strings.TrimSpace(line[len("disallow:"):])
			entry.disallow = append(entry.disallow, path)
		}
	}
	return entry
}
