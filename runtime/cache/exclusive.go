package cache

import (
	"context"
	"sync"
)

// ExclusiveRecord hands out its cache's value to one holder at a time.
type ExclusiveRecord[V any] struct {
	cache *ValueCache[V]
	sem   chan struct{}
}

func NewExclusiveRecord[V any](c *ValueCache[V]) *ExclusiveRecord[V] {
	return &ExclusiveRecord[V]{cache: c, sem: make(chan struct{}, 1)}
}

// Acquire refreshes the value if needed and waits for the lease.  The
// caller must Release the lease on every path.
func (e *ExclusiveRecord[V]) Acquire(ctx context.Context) (*Lease[V], error) {
	v, err := e.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return e.lease(ctx, v)
}

// AcquireStale leases the last good value without refreshing.
func (e *ExclusiveRecord[V]) AcquireStale(ctx context.Context) (*Lease[V], error) {
	return e.lease(ctx, e.cache.ReadStale())
}

func (e *ExclusiveRecord[V]) lease(ctx context.Context, v V) (*Lease[V], error) {
	select {
	case e.sem <- struct{}{}:
		return &Lease[V]{value: v, sem: e.sem}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type Lease[V any] struct {
	mu       sync.Mutex
	value    V
	sem      chan struct{}
	released bool
}

// Value panics once the lease is released.
func (l *Lease[V]) Value() V {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		panic("cache: access to released lease")
	}
	return l.value
}

// Release panics if called twice.
func (l *Lease[V]) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		panic("cache: lease released twice")
	}
	l.released = true
	<-l.sem
}
