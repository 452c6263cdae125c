// Package cache keeps recently generated answers so repeated or
// near-identical queries are served without another model call.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/intent"
)

const (
	responseCacheSize = 500
	responseCacheTTL  = 30 * time.Minute

	// Minimum word overlap for a stored query to be reused for a new one.
	DefaultSimilarityThreshold = 0.8
)

type cachedResponse struct {
	response      string
	originalQuery string
}

// ResponseCache stores generated answers keyed by intent plus a digest
// of the normalized query. Lookups fall back to a word-overlap scan over
// entries of the same intent, so small rewordings still hit.
type ResponseCache struct {
	lru       *expirable.LRU[string, cachedResponse]
	threshold float64
}

func NewResponseCache() *ResponseCache {
	return NewResponseCacheWithThreshold(DefaultSimilarityThreshold)
}

func NewResponseCacheWithThreshold(threshold float64) *ResponseCache {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &ResponseCache{
		lru:       expirable.NewLRU[string, cachedResponse](responseCacheSize, nil, responseCacheTTL),
		threshold: threshold,
	}
}

func cacheKey(in intent.Intent, normalized string) string {
	sum := md5.Sum([]byte(normalized))
	return in.String() + ":" + hex.EncodeToString(sum[:])[:16]
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get returns a cached answer for the query, trying an exact key match
// first and a fuzzy same-intent match second.
func (c *ResponseCache) Get(in intent.Intent, query string) (string, bool) {
	normalized := normalize(query)

	if entry, ok := c.lru.Get(cacheKey(in, normalized)); ok {
		return entry.response, true
	}

	prefix := in.String() + ":"
	for _, key := range c.lru.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if similarity(normalized, entry.originalQuery) > c.threshold {
			return entry.response, true
		}
	}
	return "", false
}

// Put stores a generated answer for the query.
func (c *ResponseCache) Put(in intent.Intent, query, response string) {
	normalized := normalize(query)
	c.lru.Add(cacheKey(in, normalized), cachedResponse{
		response:      response,
		originalQuery: normalized,
	})
}

func (c *ResponseCache) Len() int {
	return c.lru.Len()
}

// similarity is the word-overlap ratio of two normalized queries, the
// intersection of their word sets over the union.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	wordsA := toSet(strings.Fields(a))
	wordsB := toSet(strings.Fields(b))

	inter := 0
	for w := range wordsA {
		if wordsB[w] {
			inter++
		}
	}
	union := len(wordsA) + len(wordsB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
