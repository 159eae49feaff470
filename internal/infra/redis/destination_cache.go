package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"globetrotter/internal/domain"
	"globetrotter/internal/infra/memory"
	"golang.org/x/sync/singleflight"
)

const cacheName = "redis"

// DestinationCache caches destinations in Redis as JSON and falls back to a
// loader on cache miss. Redis failures degrade to a loader call.
// The catalog is stored as: SET destinations:catalog {json array}
// A single record as:       SET destination:{id}     {json object}
type DestinationCache struct {
	client   *redis.Client
	loader   memory.DestinationLoader
	ttl      time.Duration
	sf       singleflight.Group
	observer memory.CacheObserver

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDestinationCache(client *redis.Client, loader memory.DestinationLoader, ttl time.Duration, observer memory.CacheObserver) *DestinationCache {
	return &DestinationCache{
		client:   client,
		loader:   loader,
		ttl:      ttl,
		observer: observer,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *DestinationCache) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	err := c.load(ctx, catalogKey(), &out, func() (any, error) {
		return c.loader.ListDestinations(ctx)
	})
	return out, err
}

func (c *DestinationCache) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	var out domain.Destination
	err := c.load(ctx, destinationKey(id), &out, func() (any, error) {
		return c.loader.GetDestination(ctx, id)
	})
	return out, err
}

// Invalidate removes the catalog and every cached destination.
func (c *DestinationCache) Invalidate(ctx context.Context) error {
	keys := []string{catalogKey()}
	iter := c.client.Scan(ctx, 0, "destination:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return domain.Upstream("redis scan destinations", err)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return domain.Upstream("redis invalidate destinations", err)
	}
	return nil
}

func (c *DestinationCache) load(ctx context.Context, key string, dst any, fill func() (any, error)) error {
	if c.fromCache(ctx, key, dst) {
		c.notify(true)
		return nil
	}

	raw, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if blob, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return blob, nil
		}
		c.notify(false)

		v, err := fill()
		if err != nil {
			return nil, err
		}
		blob, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, blob, c.ttlWithJitter()).Err()
		return blob, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dst)
}

func (c *DestinationCache) fromCache(ctx context.Context, key string, dst any) bool {
	blob, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(blob, dst) == nil
}

func (c *DestinationCache) notify(hit bool) {
	if c.observer == nil {
		return
	}
	if hit {
		c.observer.Hit(cacheName)
	} else {
		c.observer.Miss(cacheName)
	}
}

func catalogKey() string {
	return "destinations:catalog"
}

func destinationKey(id string) string {
	return "destination:" + id
}

func (c *DestinationCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
