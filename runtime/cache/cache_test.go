package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func counter(calls *atomic.Int64) Fetcher[int] {
	return func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}
}

func TestValueCacheTTL(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	var calls atomic.Int64
	c := NewValueCache("ttl", time.Minute, ReplacingRecord[int]{}, counter(&calls))
	c.now = clk.now
	ctx := context.Background()

	v, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clk.advance(2 * time.Minute)
	v, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, clk.now(), c.LastUpdate())
}

func TestValueCacheInvalidate(t *testing.T) {
	var calls atomic.Int64
	c := NewValueCache("invalidate", time.Hour, ReplacingRecord[int]{}, counter(&calls))
	ctx := context.Background()
	_, err := c.Get(ctx)
	require.NoError(t, err)
	c.Invalidate()
	v, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestValueCacheInvalidateDuringRefresh(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewValueCache("midflight", time.Hour, ReplacingRecord[int]{}, func(context.Context) (int, error) {
		n := int(calls.Add(1))
		if n == 1 {
			close(started)
			<-release
		}
		return n, nil
	})
	ctx := context.Background()
	done := make(chan int)
	go func() {
		v, err := c.Get(ctx)
		assert.NoError(t, err)
		done <- v
	}()
	<-started
	c.Invalidate()
	close(release)
	assert.Equal(t, 1, <-done)

	v, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestValueCacheCanceledReaderDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewValueCache("detached", time.Hour, ReplacingRecord[int]{}, func(ctx context.Context) (int, error) {
		close(started)
		select {
		case <-release:
			return 5, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error)
	go func() {
		_, err := c.Get(ctx)
		first <- err
	}()
	<-started
	second := make(chan int)
	go func() {
		v, err := c.Get(context.Background())
		assert.NoError(t, err)
		second <- v
	}()
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	close(release)
	assert.Equal(t, 5, <-second)
}

func TestValueCacheFailedRefreshKeepsValue(t *testing.T) {
	fail := false
	c := NewValueCache("failing", 0, ReplacingRecord[string]{}, func(context.Context) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "good", nil
	})
	ctx := context.Background()
	_, err := c.Get(ctx)
	require.NoError(t, err)
	last := c.LastUpdate()

	fail = true
	v, err := c.Get(ctx)
	require.ErrorIs(t, err, ErrRefresh)
	assert.Equal(t, "good", v)
	assert.Equal(t, "good", c.ReadStale())
	assert.Equal(t, last, c.LastUpdate())
	assert.Equal(t, float64(1), testutil.ToFloat64(refreshErrors.WithLabelValues("failing")))
}

func TestValueCacheSingleFetch(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	c := NewValueCache("single", time.Hour, ReplacingRecord[int]{}, func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, calls.Load(), int64(8))
	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	n := calls.Load()
	_, _ = c.Get(context.Background())
	assert.Equal(t, n, calls.Load())
}

func TestMergingRecord(t *testing.T) {
	type row struct {
		key string
		val int
	}
	batch := []row{{"a", 1}, {"b", 2}}
	c := NewValueCache("merge", 0, NewMergingRecord(func(r row) string { return r.key }), func(context.Context) ([]row, error) {
		return batch, nil
	})
	ctx := context.Background()
	v, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, batch, v)

	batch = []row{{"b", 3}, {"c", 4}, {"b", 5}}
	v, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []row{{"b", 5}, {"c", 4}}, v)
	assert.Equal(t, 2, c.Size())
}

func TestExclusiveRecordLease(t *testing.T) {
	c := NewValueCache("lease", time.Hour, ReplacingRecord[int]{}, func(context.Context) (int, error) {
		return 3, nil
	})
	e := NewExclusiveRecord(c)
	lease, err := e.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, lease.Value())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = e.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	lease.Release()
	assert.Panics(t, lease.Release)
	assert.Panics(t, func() { lease.Value() })

	stale, err := e.AcquireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stale.Value())
	stale.Release()
}

func TestKeyedCache(t *testing.T) {
	var calls atomic.Int64
	k, err := NewKeyedCache("keyed", 2, time.Hour, ReplacingRecord[string]{}, func(key string) Fetcher[string] {
		return func(context.Context) (string, error) {
			calls.Add(1)
			return key + "!", nil
		}
	})
	require.NoError(t, err)
	ctx := context.Background()
	v, err := k.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a!", v)
	_, err = k.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	stale, ok := k.ReadStale("a")
	assert.True(t, ok)
	assert.Equal(t, "a!", stale)
	_, ok = k.ReadStale("missing")
	assert.False(t, ok)

	k.Invalidate("a")
	_, err = k.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())

	series := testutil.CollectAndCount(refreshLatency)
	for _, key := range []string{"b", "c", "d"} {
		_, err := k.Get(ctx, key)
		require.NoError(t, err)
	}
	assert.Equal(t, series, testutil.CollectAndCount(refreshLatency))
	assert.LessOrEqual(t, k.Len(), 2)
}
