// Package cache implements the client-side request cache: one entry per
// composite request key, de-duplicated in-flight fetches, tag-based
// invalidation, and per-entry retention.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an entry is retained after its last use when the
// caller does not specify a TTL.
const DefaultTTL = 60 * time.Second

// Options controls how a fetched value is cached.
type Options struct {
	// TTL is the retention period, refreshed on every cache hit.
	// Zero means DefaultTTL.
	TTL time.Duration
	// Tags associate the entry with invalidation groups.
	Tags []string
}

type entry struct {
	value     any
	tags      []string
	expiresAt time.Time
	ttl       time.Duration
}

// Cache is a keyed request/response cache. It is the only shared mutable
// resource between views; everything else is single-owner.
//
// Staleness policy: each key carries a generation, bumped by invalidation.
// A fetch stores its result only if the key's generation is unchanged since
// the fetch started, so a slow response that was superseded by an
// invalidation can never overwrite fresher state.
type Cache struct {
	lg  *zap.Logger
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64

	flights singleflight.Group
}

// New creates an empty Cache.
func New(lg *zap.Logger) *Cache {
	return &Cache{
		lg:      lg.Named("cache"),
		now:     time.Now,
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
	}
}

// Do returns the cached value for key, or runs fetch to produce it.
// Concurrent callers for the same key share one fetch. Errors are returned to
// the caller and never cached; there is no automatic retry.
//
// When ctx is done before the fetch finishes, Do returns ctx.Err() but the
// fetch itself is allowed to complete and populate the cache for later
// callers. Its result is simply not delivered to the cancelled caller.
func (c *Cache) Do(ctx context.Context, key string, opts Options, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		e.expiresAt = c.now().Add(e.ttl)
		c.mu.Unlock()
		return e.value, nil
	}
	gen := c.gens[key]
	c.mu.Unlock()

	// The flight outlives any individual caller by design.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key, func() (any, error) {
		v, err := fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, v, opts)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// store caches the fetched value unless the key was invalidated while the
// fetch was in flight.
func (c *Cache) store(key string, gen uint64, v any, opts Options) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		c.lg.Debug("Dropping superseded fetch result", zap.String("key", key))
		return
	}
	c.entries[key] = &entry{
		value:     v,
		tags:      slices.Clone(opts.Tags),
		expiresAt: c.now().Add(ttl),
		ttl:       ttl,
	}
}

// Get returns the cached value for key without fetching.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	e.expiresAt = c.now().Add(e.ttl)
	return e.value, true
}

// InvalidateKey drops the entry for key and marks any in-flight fetch for it
// as superseded.
func (c *Cache) InvalidateKey(key string) {
	c.mu.Lock()
	c.gens[key]++
	delete(c.entries, key)
	c.mu.Unlock()
	c.flights.Forget(key)
}

// InvalidateTags drops every entry associated with any of the given tags.
// Matching keys behave exactly as if InvalidateKey had been called on them.
func (c *Cache) InvalidateTags(tags ...string) {
	c.mu.Lock()
	var dropped []string
	for key, e := range c.entries {
		if overlaps(e.tags, tags) {
			dropped = append(dropped, key)
		}
	}
	for _, key := range dropped {
		c.gens[key]++
		delete(c.entries, key)
	}
	c.mu.Unlock()

	for _, key := range dropped {
		c.flights.Forget(key)
	}
	if len(dropped) > 0 {
		c.lg.Debug("Invalidated by tags",
			zap.Strings("tags", tags),
			zap.Int("entries", len(dropped)),
		)
	}
}

// Purge removes expired entries. Expiry is also checked lazily on access;
// Purge only reclaims memory for keys nobody asks for anymore.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries, including not yet purged expired
// ones.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func overlaps(a, b []string) bool {
	for _, t := range a {
		if slices.Contains(b, t) {
			return true
		}
	}
	return false
}

// Fetch is the typed wrapper around Cache.Do.
func Fetch[T any](ctx context.Context, c *Cache, key string, opts Options, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Do(ctx, key, opts, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
