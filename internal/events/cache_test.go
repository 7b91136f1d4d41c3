package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// memKV is an in-memory KVStore for tests.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestCacheGetOrCompute(t *testing.T) {
	cache := NewCache(newMemKV(), time.Hour)
	ctx := t.Context()

	var calls atomic.Int32
	compute := func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(`{"type":"solved"}`), nil
	}

	payload, fromCache, err := cache.GetOrCompute(ctx, "hash-a", compute)
	if err != nil {
		t.Fatalf("first compute failed: %v", err)
	}
	if fromCache {
		t.Error("expected first call to compute")
	}
	if string(payload) != `{"type":"solved"}` {
		t.Errorf("unexpected payload %s", payload)
	}

	payload, fromCache, err = cache.GetOrCompute(ctx, "hash-a", compute)
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if !fromCache {
		t.Error("expected second call to hit cache")
	}
	if string(payload) != `{"type":"solved"}` {
		t.Errorf("unexpected cached payload %s", payload)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 compute call, got %d", calls.Load())
	}
}

func TestCacheExpiredEntryRecomputes(t *testing.T) {
	kv := newMemKV()
	cache := NewCache(kv, time.Minute)
	ctx := t.Context()

	stale, err := json.Marshal(cacheEntry{
		StoredAt: time.Now().Add(-time.Hour),
		Payload:  json.RawMessage(`"old"`),
	})
	if err != nil {
		t.Fatalf("marshal stale entry: %v", err)
	}
	if err := kv.Put(ctx, "hash-b", stale); err != nil {
		t.Fatalf("seed stale entry: %v", err)
	}

	payload, fromCache, err := cache.GetOrCompute(ctx, "hash-b", func(context.Context) ([]byte, error) {
		return []byte(`"fresh"`), nil
	})
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if fromCache {
		t.Error("expected expired entry to be recomputed")
	}
	if string(payload) != `"fresh"` {
		t.Errorf("unexpected payload %s", payload)
	}
}

func TestCacheCoalescesConcurrentComputes(t *testing.T) {
	cache := NewCache(newMemKV(), time.Hour)
	ctx := t.Context()

	var calls atomic.Int32
	compute := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		return []byte("shared"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, _, err := cache.GetOrCompute(ctx, "hash-c", compute)
			if err != nil {
				t.Errorf("concurrent compute failed: %v", err)
				return
			}
			if string(payload) != "shared" {
				t.Errorf("unexpected payload %s", payload)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected 1 shared compute call, got %d", calls.Load())
	}
}

func TestCacheComputeErrorNotCached(t *testing.T) {
	cache := NewCache(newMemKV(), time.Hour)
	ctx := t.Context()

	wantErr := errors.New("solve failed")
	_, _, err := cache.GetOrCompute(ctx, "hash-d", func(context.Context) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected compute error, got %v", err)
	}

	if _, ok := cache.Get(ctx, "hash-d"); ok {
		t.Error("expected failed compute to leave no cache entry")
	}
}

func TestNilCacheComputesDirectly(t *testing.T) {
	var cache *Cache

	payload, fromCache, err := cache.GetOrCompute(t.Context(), "hash-e", func(context.Context) ([]byte, error) {
		return []byte("direct"), nil
	})
	if err != nil {
		t.Fatalf("nil cache compute failed: %v", err)
	}
	if fromCache {
		t.Error("nil cache cannot serve from cache")
	}
	if string(payload) != "direct" {
		t.Errorf("unexpected payload %s", payload)
	}
}
