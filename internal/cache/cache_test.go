package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache() *Cache {
	return New(zap.NewNop())
}

func TestCache_HitAvoidsRefetch(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return "v1", nil
	}

	v, err := c.Do(ctx, "k", Options{}, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = c.Do(ctx, "k", Options{}, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 1, calls)
}

func TestCache_DistinctKeysFetchSeparately(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, _ = c.Do(ctx, "a", Options{}, fetch)
	_, _ = c.Do(ctx, "b", Options{}, fetch)

	assert.Equal(t, 2, calls)
}

func TestCache_ConcurrentCallersShareFlight(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const n = 5
	var wg sync.WaitGroup
	results := make([]any, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Do(ctx, "k", Options{}, fetch)
		}()
	}

	// Let all callers reach the flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream down")
		}
		return "ok", nil
	}

	_, err := c.Do(ctx, "k", Options{}, fetch)
	require.Error(t, err)

	v, err := c.Do(ctx, "k", Options{}, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, _ = c.Do(ctx, "k", Options{TTL: 5 * time.Minute}, fetch)

	// Within TTL: hit, and the hit refreshes retention.
	current = current.Add(4 * time.Minute)
	_, _ = c.Do(ctx, "k", Options{TTL: 5 * time.Minute}, fetch)
	assert.Equal(t, 1, calls)

	// 4 more minutes is still within the refreshed window.
	current = current.Add(4 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	// Far past expiry: refetch.
	current = current.Add(10 * time.Minute)
	_, _ = c.Do(ctx, "k", Options{TTL: 5 * time.Minute}, fetch)
	assert.Equal(t, 2, calls)
}

func TestCache_Purge(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	_, _ = c.Do(ctx, "k", Options{TTL: time.Minute}, func(context.Context) (any, error) {
		return 1, nil
	})
	require.Equal(t, 1, c.Len())

	current = current.Add(2 * time.Minute)
	c.Purge()

	assert.Equal(t, 0, c.Len())
}

func TestCache_InvalidateTags(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	fetch := func(v string) func(context.Context) (any, error) {
		return func(context.Context) (any, error) { return v, nil }
	}

	_, _ = c.Do(ctx, "products:1", Options{Tags: []string{"Product"}}, fetch("a"))
	_, _ = c.Do(ctx, "products:2", Options{Tags: []string{"Product"}}, fetch("b"))
	_, _ = c.Do(ctx, "categories", Options{Tags: []string{"Category"}}, fetch("c"))

	c.InvalidateTags("Product")

	_, ok := c.Get("products:1")
	assert.False(t, ok)
	_, ok = c.Get("products:2")
	assert.False(t, ok)
	_, ok = c.Get("categories")
	assert.True(t, ok)
}

// Invalidation during an in-flight fetch supersedes its result: the caller
// still receives the response, but it must not repopulate the cache.
func TestCache_InFlightResultSupersededByInvalidation(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()

	started := make(chan struct{})
	release := make(chan struct{})
	type result struct {
		v   any
		err error
	}
	done := make(chan result, 1)

	go func() {
		v, err := c.Do(ctx, "k", Options{}, func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- result{v, err}
	}()

	<-started
	c.InvalidateKey("k")
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "stale", res.v)
	_, ok := c.Get("k")
	assert.False(t, ok, "superseded result must not be cached")
}

func TestCache_CancelledCallerStillPopulates(t *testing.T) {
	c := newTestCache()
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, "k", Options{}, func(context.Context) (any, error) {
			<-release
			return "late", nil
		})
		errc <- err
	}()

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	// The abandoned flight completes and fills the cache for later callers.
	close(release)
	assert.Eventually(t, func() bool {
		v, ok := c.Get("k")
		return ok && v == "late"
	}, time.Second, 5*time.Millisecond)
}

func TestFetch_Typed(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()

	v, err := Fetch(ctx, c, "k", Options{}, func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	_, err = Fetch(ctx, c, "err", Options{}, func(context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	assert.Error(t, err)
}
