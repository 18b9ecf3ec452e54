// Package cache holds refreshed copies of values fetched from slow
// sources such as input providers.  A slot is refreshed at most once
// concurrently and a failed refresh keeps the last good value.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

var ErrRefresh = errors.New("cache refresh failed")

var (
	refreshErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shesmu_cache_refresh_error",
		Help: "Attempted to refresh a value stored in cache, but the refresh failed.",
	}, []string{"name"})
	refreshLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "shesmu_cache_refresh_latency",
		Help: "Time to fetch a fresh value for a cache.",
	}, []string{"name"})
)

func init() {
	prometheus.MustRegister(refreshErrors, refreshLatency)
}

// Fetcher loads a fresh value for a cache slot.
type Fetcher[V any] func(ctx context.Context) (V, error)

// Record folds freshly fetched data into the value a slot holds.
type Record[V any] interface {
	Update(fetched V) V
	// Size is the number of items in v.
	Size(v V) int
}

// DefaultFetchTimeout bounds a refresh independently of its callers.
const DefaultFetchTimeout = 15 * time.Minute

// ValueCache is a single slot refreshed from a Fetcher once its value
// is older than the TTL.
type ValueCache[V any] struct {
	name    string
	ttl     time.Duration
	timeout time.Duration
	fetch   Fetcher[V]
	record  Record[V]
	now     func() time.Time
	group   singleflight.Group

	mu      sync.Mutex
	value   V
	updated time.Time
	loaded  bool
	invalid bool
	// generation counts calls to Invalidate.
	generation uint64
}

func NewValueCache[V any](name string, ttl time.Duration, record Record[V], fetch Fetcher[V]) *ValueCache[V] {
	return &ValueCache[V]{
		name:    name,
		ttl:     ttl,
		timeout: DefaultFetchTimeout,
		fetch:   fetch,
		record:  record,
		now:     time.Now,
	}
}

func (c *ValueCache[V]) Name() string {
	return c.name
}

// Get returns the cached value, blocking on a refresh when it is stale.
// When the refresh fails the last good value is returned alongside an
// error wrapping ErrRefresh.  A canceled ctx abandons the wait with the
// last good value but not the refresh, which other readers may share.
func (c *ValueCache[V]) Get(ctx context.Context) (V, error) {
	c.mu.Lock()
	if c.loaded && !c.invalid && c.now().Sub(c.updated) < c.ttl {
		v := c.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()
	ch := c.group.DoChan("", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.refresh(rctx)
	})
	select {
	case res := <-ch:
		val, _ := res.Val.(V)
		return val, res.Err
	case <-ctx.Done():
		return c.ReadStale(), ctx.Err()
	}
}

func (c *ValueCache[V]) refresh(ctx context.Context) (V, error) {
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()
	start := c.now()
	fetched, err := c.fetch(ctx)
	refreshLatency.WithLabelValues(c.name).Observe(c.now().Sub(start).Seconds())
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		refreshErrors.WithLabelValues(c.name).Inc()
		return c.value, fmt.Errorf("%w: %s: %w", ErrRefresh, c.name, err)
	}
	c.value = c.record.Update(fetched)
	if now := c.now(); now.After(c.updated) {
		c.updated = now
	}
	c.loaded = true
	// An Invalidate during the fetch may postdate the data fetched.
	if c.generation == generation {
		c.invalid = false
	}
	return c.value, nil
}

// ReadStale returns the last good value without refreshing.
func (c *ValueCache[V]) ReadStale() V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Invalidate forces the next Get to refresh.
func (c *ValueCache[V]) Invalidate() {
	c.mu.Lock()
	c.invalid = true
	c.generation++
	c.mu.Unlock()
}

// LastUpdate is the time of the last successful refresh.  It never
// decreases.
func (c *ValueCache[V]) LastUpdate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updated
}

func (c *ValueCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return 0
	}
	return c.record.Size(c.value)
}
