package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/monitoring"

	"github.com/redis/go-redis/v9"
)

// Class selects the TTL applied to a cached entry. Balances go stale fast;
// event analytics can lag a couple of minutes without anyone noticing.
type Class string

const (
	ClassBalance   Class = "balance"
	ClassTicket    Class = "ticket"
	ClassAnalytics Class = "analytics"
)

// FetchFunc loads the authoritative value on a cache miss.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Cache is a read-through cache over the ledger client's read queries.
// Entries are written wholesale and dropped wholesale; nothing is mutated in
// place, so concurrent readers need no locking beyond what redis provides.
type Cache struct {
	rdb  *redis.Client
	ttls map[Class]time.Duration

	mu     sync.Mutex
	hits   map[Class]uint64
	misses map[Class]uint64
}

func New(rdb *redis.Client, ttls map[Class]time.Duration) *Cache {
	return &Cache{
		rdb:    rdb,
		ttls:   ttls,
		hits:   make(map[Class]uint64),
		misses: make(map[Class]uint64),
	}
}

// Read unmarshals the cached value for key into out, fetching and storing it
// first when the entry is missing or expired. A fetch failure is returned to
// the caller untouched; nothing is cached for it.
func (c *Cache) Read(ctx context.Context, key string, class Class, out interface{}, fetch FetchFunc) error {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		c.record(class, true)
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("read: corrupt cache entry for %s: %w", key, err)
		}
		return nil
	}
	if err != redis.Nil {
		// A broken cache store must not break reads; fall through to the
		// ledger as if this were a miss.
		logger.Warnf(ctx, "read: cache store error for %s: %+v", key, err)
	}
	c.record(class, false)

	value, err := fetch(ctx)
	if err != nil {
		return err
	}

	payload, err = json.Marshal(value)
	if err != nil {
		return fmt.Errorf("read: unable to marshal value for %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttls[class]).Err(); err != nil {
		logger.Warnf(ctx, "read: unable to store %s: %+v", key, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("read: unable to unmarshal fetched value for %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the entry for key, forcing the next Read to refetch.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate: unable to drop %s: %w", key, err)
	}
	return nil
}

// InvalidateGroup drops every key a confirmed transaction touched.
func (c *Cache) InvalidateGroup(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidateGroup: unable to drop %d keys: %w", len(keys), err)
	}
	return nil
}

func (c *Cache) record(class Class, hit bool) {
	monitoring.TrackCacheRead(string(class), hit)
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits[class]++
	} else {
		c.misses[class]++
	}
}

// ClassStats is one row of the advisory stats snapshot.
type ClassStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Stats returns hit/miss counters per TTL class since process start.
func (c *Cache) Stats() map[string]ClassStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := make(map[string]ClassStats)
	for _, class := range []Class{ClassBalance, ClassTicket, ClassAnalytics} {
		if c.hits[class] == 0 && c.misses[class] == 0 {
			continue
		}
		stats[string(class)] = ClassStats{Hits: c.hits[class], Misses: c.misses[class]}
	}
	return stats
}
