package services

import (
	"sync"
	"time"

	"github.com/storybeats-labs/storybeats/internal/core/domain"
)

type sessionEntry struct {
	profile   domain.MoodProfile
	superset  []domain.ScoredTrack
	consumed  int
	expiresAt time.Time
}

// sessionCache holds each recommendation run's superset so "load more" can
// page through it without recomputation. Every successful consumption
// refreshes the entry's TTL.
type sessionCache struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

func newSessionCache(ttl time.Duration, now func() time.Time) *sessionCache {
	return &sessionCache{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		now:     now,
	}
}

// put stores a fresh session. consumed marks tracks already served in the
// first batch.
func (c *sessionCache) put(id string, profile domain.MoodProfile, superset []domain.ScoredTrack, consumed int) {
	if consumed > len(superset) {
		consumed = len(superset)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = &sessionEntry{
		profile:   profile,
		superset:  superset,
		consumed:  consumed,
		expiresAt: c.now().Add(c.ttl),
	}
}

// next returns up to n unserved tracks, advances the cursor and reports how
// many tracks remain after this page. The last return is false on a miss
// (unknown or expired session). An exhausted session is a hit with an empty
// slice.
func (c *sessionCache) next(id string, n int) ([]domain.ScoredTrack, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, 0, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, id)
		return nil, 0, false
	}

	end := e.consumed + n
	if end > len(e.superset) {
		end = len(e.superset)
	}
	page := e.superset[e.consumed:end]
	e.consumed = end
	e.expiresAt = c.now().Add(c.ttl)
	return page, len(e.superset) - end, true
}

// profileFor returns the analysis profile a session was created with.
func (c *sessionCache) profileFor(id string) (domain.MoodProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || c.now().After(e.expiresAt) {
		return domain.MoodProfile{}, false
	}
	return e.profile, true
}

// trackFeatures looks a served track up by id so feedback can carry the audio
// features that were scored against.
func (c *sessionCache) trackFeatures(id, songID string) (domain.AudioFeatures, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || c.now().After(e.expiresAt) {
		return domain.AudioFeatures{}, false
	}
	for _, t := range e.superset {
		if t.ID == songID {
			return t.Features, true
		}
	}
	return domain.AudioFeatures{}, false
}

// replaceSuperset swaps in a reordered superset in one step. The consumption
// cursor carries over so already-served counts stay monotonic.
func (c *sessionCache) replaceSuperset(id string, superset []domain.ScoredTrack) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || c.now().After(e.expiresAt) {
		return false
	}
	e.superset = superset
	if e.consumed > len(superset) {
		e.consumed = len(superset)
	}
	return true
}

// sweepExpired drops expired sessions and reports how many were removed.
func (c *sessionCache) sweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *sessionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
