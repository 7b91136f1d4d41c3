package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss indicates no usable entry exists for the requested key.
var ErrCacheMiss = errors.New("events: cache miss")

// KVStore is the storage backend for the result cache. The publisher
// provides a JetStream KV implementation; tests use an in-memory map.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// cacheEntry wraps a payload with its storage time. TTL is enforced on
// read since JetStream KV has no per-key TTL.
type cacheEntry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Cache is a TTL result cache with request coalescing. Concurrent
// lookups for the same key share a single computation.
// A nil Cache is valid and computes everything directly.
type Cache struct {
	kv    KVStore
	ttl   time.Duration
	group singleflight.Group
}

// NewCache creates a cache over the given backend. A non-positive TTL
// disables expiry.
func NewCache(kv KVStore, ttl time.Duration) *Cache {
	return &Cache{kv: kv, ttl: ttl}
}

// Get returns the cached payload for key if present and fresh.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}

	data, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.StoredAt) >= c.ttl {
		return nil, false
	}

	return entry.Payload, true
}

func (c *Cache) put(ctx context.Context, key string, payload []byte) {
	entry := cacheEntry{StoredAt: time.Now(), Payload: payload}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = c.kv.Put(ctx, key, data)
}

// GetOrCompute returns the cached payload for key, or runs compute and
// stores its result. The second return reports whether the payload came
// from cache. Concurrent callers with the same key share one compute.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if c == nil || c.kv == nil {
		payload, err := compute(ctx)
		return payload, false, err
	}

	if payload, ok := c.Get(ctx, key); ok {
		return payload, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		payload, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.put(ctx, key, payload)
		return payload, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.([]byte), false, nil
}
