// Package history provides the short-lived read cache in front of
// conversation message retrieval.
package history

import (
	"context"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
)

const (
	// DefaultLimit is the number of prior turns loaded for generation.
	DefaultLimit = 10
	// FastLimit is the smaller window used on the hot path where only
	// recent context matters.
	FastLimit = 5

	cacheTTL        = 10 * time.Minute
	cleanupInterval = 2 * time.Minute
)

// Source retrieves a session's messages in chronological order, newest
// last, capped at limit.
type Source interface {
	Messages(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error)
}

// Loader caches recent history reads per (session, user, limit) so a
// burst of queries in one session does not hammer the store.
type Loader struct {
	source Source
	cache  *gocache.Cache
}

func NewLoader(source Source) *Loader {
	return &Loader{
		source: source,
		cache:  gocache.New(cacheTTL, cleanupInterval),
	}
}

func key(sessionID, userID string, limit int) string {
	return sessionID + ":" + userID + ":" + strconv.Itoa(limit)
}

// Load returns the session's recent messages, from cache when fresh.
func (l *Loader) Load(ctx context.Context, sessionID, userID string, limit int) ([]entity.ChatMessage, error) {
	k := key(sessionID, userID, limit)
	if v, ok := l.cache.Get(k); ok {
		return v.([]entity.ChatMessage), nil
	}

	messages, err := l.source.Messages(ctx, sessionID, userID, limit)
	if err != nil {
		return nil, err
	}
	l.cache.SetDefault(k, messages)
	return messages, nil
}

// Record folds a newly created message into any cached windows for its
// session, keeping them consistent without a store round-trip.
func (l *Loader) Record(msg entity.ChatMessage) {
	prefix := msg.SessionId.String() + ":" + msg.UserId + ":"
	for k, item := range l.cache.Items() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		cached, ok := item.Object.([]entity.ChatMessage)
		if !ok {
			continue
		}
		limit, err := strconv.Atoi(strings.TrimPrefix(k, prefix))
		if err != nil {
			continue
		}
		updated := make([]entity.ChatMessage, 0, len(cached)+1)
		updated = append(updated, cached...)
		updated = append(updated, msg)
		if len(updated) > limit {
			updated = updated[len(updated)-limit:]
		}
		l.cache.SetDefault(k, updated)
	}
}

// Invalidate drops every cached window for a session, forcing the next
// Load to hit the store.
func (l *Loader) Invalidate(sessionID, userID string) {
	prefix := sessionID + ":" + userID + ":"
	for k := range l.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			l.cache.Delete(k)
		}
	}
}
