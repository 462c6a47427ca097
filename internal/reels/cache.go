package reels

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/reelstream/backend/internal/logging"
	"github.com/reelstream/backend/internal/models"
)

// listKey is the sentinel cache key for the full reel listing.
const listKey = "list"

const reelKeyPrefix = "reel:"

// Origin is the metadata store the cache reads through to. Both the
// Postgres repository and the HTTP client satisfy it.
type Origin interface {
	List(ctx context.Context) ([]models.Reel, error)
	Get(ctx context.Context, id string) (models.Reel, error)
}

// Recorder observes cache outcomes. Implementations must tolerate being
// called from concurrent lookups.
type Recorder interface {
	CacheHit(key string)
	CacheMiss(key string)
	CacheCollapse(key string)
}

type cacheEntry struct {
	payload   any
	fetchedAt time.Time
}

// Cache is a read-through cache in front of the reel listing and
// single-reel lookups. Concurrent lookups for the same uncached key
// collapse into one origin call, with every caller receiving the same
// settled outcome. Failed fetches are never cached, so the next lookup
// retries from origin.
type Cache struct {
	origin   Origin
	ttl      time.Duration // zero means entries never expire
	recorder Recorder

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache returns a cache over the provided origin. A non-positive ttl
// keeps entries for the lifetime of the cache; the recorder may be nil.
func NewCache(origin Origin, ttl time.Duration, recorder Recorder) *Cache {
	return &Cache{
		origin:   origin,
		ttl:      ttl,
		recorder: recorder,
		entries:  make(map[string]cacheEntry),
	}
}

// List returns the cached reel listing, fetching it from origin on miss.
func (c *Cache) List(ctx context.Context) ([]models.Reel, error) {
	if payload, ok := c.lookup(listKey); ok {
		return payload.([]models.Reel), nil
	}

	payload, err, shared := c.group.Do(listKey, func() (any, error) {
		// A concurrent flight may have populated the entry between the
		// miss and this call.
		if payload, ok := c.peek(listKey); ok {
			return payload, nil
		}
		span := logging.StartSpan(ctx, "origin.list")
		defer span.End()
		listing, err := c.origin.List(ctx)
		if err != nil {
			return nil, err
		}
		c.store(listKey, listing)
		return listing, nil
	})
	if shared && c.recorder != nil {
		c.recorder.CacheCollapse(listKey)
	}
	if err != nil {
		return nil, err
	}
	return payload.([]models.Reel), nil
}

// Get returns the cached reel for the given id, fetching it from origin
// on miss. A not-found outcome is surfaced as ErrNotFound (or the
// origin's own sentinel) and is not cached.
func (c *Cache) Get(ctx context.Context, id string) (models.Reel, error) {
	key := reelKeyPrefix + id
	if payload, ok := c.lookup(key); ok {
		return payload.(models.Reel), nil
	}

	payload, err, shared := c.group.Do(key, func() (any, error) {
		if payload, ok := c.peek(key); ok {
			return payload, nil
		}
		span := logging.StartSpan(ctx, "origin.get")
		defer span.End()
		reel, err := c.origin.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		c.store(key, reel)
		return reel, nil
	})
	if shared && c.recorder != nil {
		c.recorder.CacheCollapse(key)
	}
	if err != nil {
		return models.Reel{}, err
	}
	return payload.(models.Reel), nil
}

// Invalidate drops the entry for the given reel id along with the listing
// entry, since the listing may now be stale.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, reelKeyPrefix+id)
	delete(c.entries, listKey)
	c.mu.Unlock()
}

// InvalidateList drops only the listing entry. Used after creates, where
// no single-reel entry exists yet.
func (c *Cache) InvalidateList() {
	c.mu.Lock()
	delete(c.entries, listKey)
	c.mu.Unlock()
}

func (c *Cache) lookup(key string) (any, bool) {
	payload, ok := c.peek(key)
	if c.recorder != nil {
		if ok {
			c.recorder.CacheHit(key)
		} else {
			c.recorder.CacheMiss(key)
		}
	}
	return payload, ok
}

// peek is lookup without outcome recording, used for the re-check inside
// a collapsed flight.
func (c *Cache) peek(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.ttl > 0 && time.Since(entry.fetchedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.payload, ok
}

func (c *Cache) store(key string, payload any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{payload: payload, fetchedAt: time.Now()}
	c.mu.Unlock()
}
