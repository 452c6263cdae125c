// Package dedup drops rapid duplicate submissions of the same query so
// client retries do not trigger a second generation.
package dedup

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultWindow is how long an identical (user, session, text) triple is
// considered a duplicate.
const DefaultWindow = 5 * time.Minute

// Guard remembers recently seen submissions. At-most-once within the
// window; entries expire on their own.
type Guard struct {
	window time.Duration
	seen   *gocache.Cache
}

func NewGuard(window time.Duration) *Guard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{
		window: window,
		seen:   gocache.New(window, window/2),
	}
}

// FirstSeen records the submission and reports whether it is the first
// occurrence within the window. The check and the record are one atomic
// step.
func (g *Guard) FirstSeen(userID, sessionID, text string) bool {
	key := userID + ":" + sessionID + ":" + text
	return g.seen.Add(key, struct{}{}, g.window) == nil
}
