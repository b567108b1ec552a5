package httpx

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// CacheTTL is the nominal cache-entry lifetime named in SPEC_FULL §5.
// Lookup does not consult it: freshness comes from the stored max-age
// alone, and an entry stored without one is fresh for maxFreshAge.
const CacheTTL = 7 * 24 * time.Hour

// maxFreshAge caps Cache-Control: max-age at 30 minutes per SPEC_FULL §4.1,
// regardless of what the origin advertises.
const maxFreshAge = 30 * time.Minute

// cacheEntryMeta is the JSON sidecar written next to every cached binary
// body, keyed by (method, URL). The URL is used exactly as the caller
// passes it; it is not canonicalized here.
type cacheEntryMeta struct {
	URL          string            `json:"url"`
	Status       int               `json:"status"`
	Headers      map[string]string `json:"headers"`
	ETag         string            `json:"etag,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	StoredAt     time.Time         `json:"stored_at"`
	MaxAge       time.Duration     `json:"max_age"`
}

// maxCacheEntryBytes caps an individual cached HTML body, per SPEC_FULL §5
// (HTML cache entry size cap 2 MB). Larger bodies are still returned to the
// caller but are not written to disk.
const maxCacheEntryBytes = 2 * 1024 * 1024

// ResponseCache is an on-disk cache keyed by SHA-256(method+"\n"+url),
// sharded into subdirectories by the first two hex characters of the hash,
// writing via tmp-file + rename for atomicity (SPEC_FULL §5).
type ResponseCache struct {
	dir string
}

func NewResponseCache(dir string) *ResponseCache {
	return &ResponseCache{dir: dir}
}

func (c *ResponseCache) keyFor(method, url string) (hash, shard, base string) {
	sum := sha256.Sum256([]byte(method + "\n" + url))
	hash = hex.EncodeToString(sum[:])
	shard = hash[:2]
	base = filepath.Join(c.dir, shard, hash)
	return
}

// Lookup returns a cached entry and whether it is still fresh per
// Cache-Control: max-age (capped to 30 minutes). A stale-but-present entry
// is still returned (for revalidation headers) with fresh=false.
func (c *ResponseCache) Lookup(method, url string) (meta cacheEntryMeta, body []byte, present, fresh bool) {
	if c == nil || c.dir == "" {
		return cacheEntryMeta{}, nil, false, false
	}
	_, _, base := c.keyFor(method, url)
	metaBytes, err := os.ReadFile(base + ".meta.json")
	if err != nil {
		return cacheEntryMeta{}, nil, false, false
	}
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return cacheEntryMeta{}, nil, false, false
	}
	body, err = os.ReadFile(base + ".body")
	if err != nil {
		return meta, nil, false, false
	}
	age := time.Since(meta.StoredAt)
	effectiveMaxAge := meta.MaxAge
	if effectiveMaxAge <= 0 || effectiveMaxAge > maxFreshAge {
		effectiveMaxAge = maxFreshAge
	}
	fresh = age < effectiveMaxAge
	return meta, body, true, fresh
}

// Store writes a response to disk using tmp-file + rename for atomicity.
// Bodies over maxCacheEntryBytes are skipped to respect the cache entry
// size cap; the caller still has the body in memory for this call.
func (c *ResponseCache) Store(method, url string, status int, headers map[string]string, body []byte, maxAge time.Duration) {
	if c == nil || c.dir == "" {
		return
	}
	if len(body) > maxCacheEntryBytes {
		return
	}
	_, shard, base := c.keyFor(method, url)
	dir := filepath.Join(c.dir, shard)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	meta := cacheEntryMeta{
		URL:          url,
		Status:       status,
		Headers:      RedactHeaders(headers),
		ETag:         headers["ETag"],
		LastModified: headers["Last-Modified"],
		StoredAt:     time.Now().UTC(),
		MaxAge:       maxAge,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return
	}

	writeAtomic(base+".meta.json", metaBytes)
	writeAtomic(base+".body", body)
}

// Touch refreshes StoredAt after a 304 Not Modified revalidation without
// rewriting the body.
func (c *ResponseCache) Touch(method, url string) {
	if c == nil || c.dir == "" {
		return
	}
	meta, _, present, _ := c.Lookup(method, url)
	if !present {
		return
	}
	meta.StoredAt = time.Now().UTC()
	_, _, base := c.keyFor(method, url)
	if b, err := json.Marshal(meta); err == nil {
		writeAtomic(base+".meta.json", b)
	}
}

func writeAtomic(path string, data []byte) {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}
