// Package factcache is a Redis-backed cache for gathered device facts.
// Orchestration layers that touch many devices use it to skip re-gathering
// facts that are still fresh; the protocol core below it never caches.
package factcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/srlinux-automation/srlcli/pkg/facts"
)

// DefaultTTL is how long a cached fact set stays valid.
const DefaultTTL = time.Hour

const keyPrefix = "srlcli:facts:"

// Cache stores per-device fact sets in Redis as JSON with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache against a Redis address ("host:port"). A zero ttl
// means DefaultTTL.
func New(addr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Connect tests the connection.
func (c *Cache) Connect(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func cacheKey(device string) string {
	return keyPrefix + device
}

// Put stores a device's facts, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, device string, f *facts.Facts) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding facts for %s: %w", device, err)
	}
	if err := c.client.Set(ctx, cacheKey(device), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching facts for %s: %w", device, err)
	}
	return nil
}

// Get returns a device's cached facts, or nil (not an error) on a miss.
func (c *Cache) Get(ctx context.Context, device string) (*facts.Facts, error) {
	data, err := c.client.Get(ctx, cacheKey(device)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached facts for %s: %w", device, err)
	}
	f := &facts.Facts{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decoding cached facts for %s: %w", device, err)
	}
	return f, nil
}

// Invalidate drops a device's cached facts. Dropping an absent entry is
// not an error.
func (c *Cache) Invalidate(ctx context.Context, device string) error {
	return c.client.Del(ctx, cacheKey(device)).Err()
}
