// Package dedup collapses near-duplicate evidence items down to one
// representative per distinct piece of content, in three passes: exact
// canonical-URL match, exact content-hash match, then near-duplicate
// detection over a MinHash/LSH sketch of the item's text.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/normalize"
)

// NearDupThreshold is the Jaccard similarity on MinHash signatures above
// which two items are considered near-duplicates, per spec.md §4.6.
const NearDupThreshold = 0.92

const numHashes = 64

// ContentHash returns the SHA-256 of an item's best available text,
// populated onto Item.ContentHash so later passes (and the cache layer)
// can reuse it without recomputing.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}

// Run executes all three dedup passes in order and returns the retained
// items plus, for bookkeeping, the count dropped at each stage.
func Run(items []*evidence.Item) (kept []*evidence.Item, droppedByURL, droppedByHash, droppedByNearDup int) {
	kept, droppedByURL = dedupeByCanonicalURL(items)
	kept, droppedByHash = dedupeByContentHash(kept)
	kept, droppedByNearDup = dedupeByMinHash(kept)
	return kept, droppedByURL, droppedByHash, droppedByNearDup
}

// retains reports whether candidate should replace incumbent as the kept
// member of a duplicate group: highest credibility_score wins, ties broken
// by earliest collected_at.
func retains(candidate, incumbent *evidence.Item) bool {
	if candidate.CredibilityScore != incumbent.CredibilityScore {
		return candidate.CredibilityScore > incumbent.CredibilityScore
	}
	return candidate.CollectedAt.Before(incumbent.CollectedAt)
}

// dedupeByCanonicalURL groups items by canonical URL, retaining the
// highest-credibility member of each group (earliest collected_at ties).
func dedupeByCanonicalURL(items []*evidence.Item) ([]*evidence.Item, int) {
	best := make(map[string]*evidence.Item, len(items))
	order := make([]string, 0, len(items))
	dropped := 0
	for _, it := range items {
		key := normalize.CanonicalURL(it.URL)
		cur, ok := best[key]
		if !ok {
			best[key] = it
			order = append(order, key)
			continue
		}
		dropped++
		if retains(it, cur) {
			best[key] = it
		}
	}
	kept := make([]*evidence.Item, 0, len(order))
	for _, key := range order {
		kept = append(kept, best[key])
	}
	return kept, dropped
}

func dedupeByContentHash(items []*evidence.Item) ([]*evidence.Item, int) {
	best := make(map[string]*evidence.Item, len(items))
	order := make([]string, 0, len(items))
	dropped := 0
	for _, it := range items {
		if it.ContentHash == "" {
			it.ContentHash = ContentHash(it.BestText())
		}
		cur, ok := best[it.ContentHash]
		if !ok {
			best[it.ContentHash] = it
			order = append(order, it.ContentHash)
			continue
		}
		dropped++
		if retains(it, cur) {
			best[it.ContentHash] = it
		}
	}
	kept := make([]*evidence.Item, 0, len(order))
	for _, hash := range order {
		kept = append(kept, best[hash])
	}
	return kept, dropped
}

// dedupeByMinHash retains the highest-credibility member of each
// near-duplicate group found by comparing MinHash signatures of shingled
// text (earliest collected_at ties).
func dedupeByMinHash(items []*evidence.Item) ([]*evidence.Item, int) {
	sigs := make([][]uint64, len(items))
	for i, it := range items {
		sigs[i] = minHashSignature(it.BestText())
	}

	dropped := 0
	keepFlags := make([]bool, len(items))
	for i := range items {
		keepFlags[i] = true
	}
	for i := 0; i < len(items); i++ {
		if !keepFlags[i] {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if !keepFlags[j] {
				continue
			}
			if jaccardEstimate(sigs[i], sigs[j]) >= NearDupThreshold {
				dropped++
				if retains(items[j], items[i]) {
					keepFlags[i] = false
					break
				}
				keepFlags[j] = false
			}
		}
	}

	var kept []*evidence.Item
	for i, it := range items {
		if keepFlags[i] {
			kept = append(kept, it)
		}
	}
	return kept, dropped
}

// minHashSignature builds a fixed-size MinHash sketch over word 6-shingles
// of text, using numHashes independent linear hash functions over the
// FNV-ish hash of each shingle. This trades exactness for O(1)-per-pair
// comparison instead of O(n^2) substring comparison.
func minHashSignature(text string) []uint64 {
	shingles := shingle6(text)
	sig := make([]uint64, numHashes)
	for i := range sig {
		sig[i] = ^uint64(0)
	}
	if len(shingles) == 0 {
		return sig
	}
	for _, sh := range shingles {
		h := fnvHash(sh)
		for i := 0; i < numHashes; i++ {
			a := hashSeeds[i][0]
			b := hashSeeds[i][1]
			v := a*h + b
			if v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

func jaccardEstimate(a, b []uint64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

const shingleSize = 6

func shingle6(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < shingleSize {
		if len(words) == 0 {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}
	out := make([]string, 0, len(words)-shingleSize+1)
	for i := 0; i+shingleSize <= len(words); i++ {
		out = append(out, strings.Join(words[i:i+shingleSize], " "))
	}
	sort.Strings(out)
	return out
}

func fnvHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// hashSeeds are fixed odd multiplier/offset pairs for the numHashes
// independent linear hash functions used by minHashSignature. Fixed
// (not random) so the signature of a given text is stable across runs.
var hashSeeds = buildHashSeeds()

func buildHashSeeds() [numHashes][2]uint64 {
	var seeds [numHashes][2]uint64
	var state uint64 = 0x9E3779B97F4A7C15
	for i := 0; i < numHashes; i++ {
		state = state*6364136223846793005 + 1442695040888963407
		a := state | 1
		state = state*6364136223846793005 + 1442695040888963407
		b := state
		seeds[i] = [2]uint64{a, b}
	}
	return seeds
}
