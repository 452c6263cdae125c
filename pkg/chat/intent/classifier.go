package intent

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
)

const (
	cacheSize = 1000
	cacheTTL  = 60 * time.Minute

	// A best score below this means none of the patterns matched with
	// enough signal to trust, so the classifier falls back to the safe
	// default of symptom inquiry.
	confidenceThreshold = 10.0

	contextBoost = 5.0
)

// Classifier scores a query against every intent's keyword and regex
// signals locally, in microseconds, without calling a model. Normalized
// queries are cached so repeated questions resolve from memory. When a
// model-backed fallback is attached, queries the patterns cannot score
// confidently are sent to it instead of defaulting immediately.
type Classifier struct {
	rules    []rulePattern
	cache    *expirable.LRU[string, Intent]
	fallback *LLMClassifier

	totalQueries atomic.Int64
	cacheHits    atomic.Int64
}

// Stats is a snapshot of classifier counters.
type Stats struct {
	TotalQueries int64   `json:"total_queries"`
	CacheHits    int64   `json:"cache_hits"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	CacheSize    int     `json:"cache_size"`
}

func NewClassifier() *Classifier {
	return &Classifier{
		rules: defaultPatterns(),
		cache: expirable.NewLRU[string, Intent](cacheSize, nil, cacheTTL),
	}
}

// NewClassifierWithFallback attaches a model-backed classifier consulted
// when the pattern score stays below the confidence threshold.
func NewClassifierWithFallback(fallback *LLMClassifier) *Classifier {
	c := NewClassifier()
	c.fallback = fallback
	return c
}

// Classify returns the routing intent for query along with scoring
// metadata. History, when present, gives a small boost to the intent the
// assistant's last reply was about.
func (c *Classifier) Classify(ctx context.Context, query string, history []entity.ChatMessage) (Intent, map[string]interface{}) {
	start := time.Now()
	total := c.totalQueries.Add(1)

	normalized := strings.ToLower(strings.TrimSpace(query))

	if cached, ok := c.cache.Get(normalized); ok {
		hits := c.cacheHits.Add(1)
		return cached, map[string]interface{}{
			"intent":             cached.String(),
			"method":             "cache_hit",
			"processing_time_ms": float64(time.Since(start).Microseconds()) / 1000,
			"cache_hit_rate":     float64(hits) / float64(total),
		}
	}

	scores := c.score(normalized, history)

	// Rules are ordered by priority; a tie keeps the first maximum so the
	// outcome never depends on map iteration order.
	best, bestScore := Intent(""), -1.0
	for _, rule := range c.rules {
		if s := scores[rule.intent]; s > bestScore {
			best, bestScore = rule.intent, s
		}
	}

	if bestScore < confidenceThreshold && c.fallback != nil {
		if detected, md, err := c.fallback.Classify(ctx, query); err == nil {
			c.cache.Add(normalized, detected)
			md["method"] = "llm_fallback"
			md["processing_time_ms"] = float64(time.Since(start).Microseconds()) / 1000
			md["cache_hit_rate"] = float64(c.cacheHits.Load()) / float64(total)
			return detected, md
		}
		// Fallback failure keeps the safe default below.
	}

	detected := SymptomInquiry
	if bestScore >= confidenceThreshold {
		detected = best
	}

	c.cache.Add(normalized, detected)

	exported := make(map[string]interface{}, len(scores))
	for in, s := range scores {
		exported[in.String()] = s
	}
	return detected, map[string]interface{}{
		"intent":             detected.String(),
		"method":             "pattern_matching",
		"processing_time_ms": float64(time.Since(start).Microseconds()) / 1000,
		"confidence_score":   scores[detected],
		"all_scores":         exported,
		"cache_hit_rate":     float64(c.cacheHits.Load()) / float64(total),
	}
}

func (c *Classifier) score(normalized string, history []entity.ChatMessage) map[Intent]float64 {
	scores := make(map[Intent]float64, len(c.rules))

	var lastBotText string
	if n := len(history); n > 0 {
		if last := history[n-1]; last.Sender == constant.SenderBot {
			lastBotText = strings.ToLower(last.Text)
		}
	}

	for _, rule := range c.rules {
		var score float64

		keywordMatches := 0
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				keywordMatches++
			}
		}
		if keywordMatches > 0 {
			score += float64(keywordMatches) / float64(len(rule.keywords)) * rule.priority * 10
		}

		patternMatches := 0
		for _, re := range rule.patterns {
			if re.MatchString(normalized) {
				patternMatches++
			}
		}
		if patternMatches > 0 {
			score += float64(patternMatches) / float64(len(rule.patterns)) * rule.priority * 20
		}

		if lastBotText != "" && strings.Contains(lastBotText, rule.intent.String()) {
			score += contextBoost
		}

		scores[rule.intent] = score
	}
	return scores
}

// Stats reports the classifier's cumulative counters.
func (c *Classifier) Stats() Stats {
	total := c.totalQueries.Load()
	hits := c.cacheHits.Load()
	rate := float64(hits) / float64(max64(1, total))
	return Stats{
		TotalQueries: total,
		CacheHits:    hits,
		CacheHitRate: rate,
		CacheSize:    c.cache.Len(),
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
