package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"globetrotter/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DestinationLoader fetches destinations from a backing store (e.g., document DB).
type DestinationLoader interface {
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	GetDestination(ctx context.Context, id string) (domain.Destination, error)
}

// CacheObserver is told about hits and misses; metrics.CacheObserver satisfies it.
type CacheObserver interface {
	Hit(cache string)
	Miss(cache string)
}

const (
	catalogKey       = "catalog"
	defaultCacheSize = 1024
	cacheName        = "memory"
)

// DestinationCache caches the catalog and single destinations with TTL to
// avoid repeated DB hits. Entries live in a bounded LRU.
type DestinationCache struct {
	loader   DestinationLoader
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group
	observer CacheObserver

	mu    sync.Mutex
	rnd   *rand.Rand
	cache *lru.Cache
}

type cachedEntry struct {
	value     any
	expiresAt time.Time
}

func NewDestinationCache(loader DestinationLoader, ttl time.Duration, observer CacheObserver) *DestinationCache {
	cache, _ := lru.New(defaultCacheSize)
	return &DestinationCache{
		loader:   loader,
		ttl:      ttl,
		clock:    time.Now,
		observer: observer,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    cache,
	}
}

func (c *DestinationCache) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	v, err := c.load(ctx, catalogKey, func() (any, error) {
		return c.loader.ListDestinations(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Destination), nil
}

func (c *DestinationCache) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	v, err := c.load(ctx, "dest:"+id, func() (any, error) {
		return c.loader.GetDestination(ctx, id)
	})
	if err != nil {
		return domain.Destination{}, err
	}
	return v.(domain.Destination), nil
}

// Invalidate drops every cached entry, e.g. after an import.
func (c *DestinationCache) Invalidate() {
	c.cache.Purge()
}

func (c *DestinationCache) load(_ context.Context, key string, fill func() (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		c.hit()
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		// Re-check in case another goroutine filled it.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		c.miss()

		v, err := fill()
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, cachedEntry{value: v, expiresAt: c.clock().Add(c.ttlWithJitter())})
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *DestinationCache) lookup(key string) (any, bool) {
	raw, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := raw.(cachedEntry)
	if !entry.expiresAt.After(c.clock()) {
		c.cache.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (c *DestinationCache) hit() {
	if c.observer != nil {
		c.observer.Hit(cacheName)
	}
}

func (c *DestinationCache) miss() {
	if c.observer != nil {
		c.observer.Miss(cacheName)
	}
}

func (c *DestinationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
