package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	arc "github.com/hashicorp/golang-lru/arc/v2"
)

// KeyedCache holds a bounded number of slots, one per key, each refreshed
// independently.  Slots that fall out of the ARC are refetched on their
// next use.
type KeyedCache[K comparable, V any] struct {
	name   string
	ttl    time.Duration
	record Record[V]
	fetch  func(K) Fetcher[V]

	mu    sync.Mutex
	slots *arc.ARCCache[K, *ValueCache[V]]
}

func NewKeyedCache[K comparable, V any](name string, size int, ttl time.Duration, record Record[V], fetch func(K) Fetcher[V]) (*KeyedCache[K, V], error) {
	slots, err := arc.NewARC[K, *ValueCache[V]](size)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", name, err)
	}
	return &KeyedCache[K, V]{
		name:   name,
		ttl:    ttl,
		record: record,
		fetch:  fetch,
		slots:  slots,
	}, nil
}

func (k *KeyedCache[K, V]) slot(key K) *ValueCache[V] {
	k.mu.Lock()
	defer k.mu.Unlock()
	if c, ok := k.slots.Get(key); ok {
		return c
	}
	c := NewValueCache(k.name, k.ttl, k.record, k.fetch(key))
	k.slots.Add(key, c)
	return c
}

func (k *KeyedCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	return k.slot(key).Get(ctx)
}

// ReadStale returns the last good value for key, if the key has a slot.
func (k *KeyedCache[K, V]) ReadStale(key K) (V, bool) {
	k.mu.Lock()
	c, ok := k.slots.Peek(key)
	k.mu.Unlock()
	if !ok {
		var zero V
		return zero, false
	}
	return c.ReadStale(), true
}

func (k *KeyedCache[K, V]) Invalidate(key K) {
	k.mu.Lock()
	c, ok := k.slots.Peek(key)
	k.mu.Unlock()
	if ok {
		c.Invalidate()
	}
}

func (k *KeyedCache[K, V]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.slots.Len()
}
