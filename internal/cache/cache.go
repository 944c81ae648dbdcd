// Package cache is the console's request-result cache and invalidation
// coordinator. Reads are memoized per logical query identity (entity family
// plus parameter); mutations invalidate the transitively-affected keys so the
// next read re-fetches from the remote store.
package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultFreshFor matches the console's stale window.
	DefaultFreshFor = 5 * time.Minute
	// ReadRetries is the retry budget for failed reads.
	ReadRetries = 2
	// WriteRetries is the retry budget for failed mutations.
	WriteRetries = 1
)

// Key identifies a cached read. Param is empty for unfiltered list and stats
// reads, and carries the parameterizing argument otherwise (for example the
// brand ID of a categories-by-brand read).
type Key struct {
	Family string
	Param  string
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache is a process-wide read cache shared by all components. Any component
// may read it; only the mutation path invalidates it.
type Cache struct {
	mu       sync.Mutex
	freshFor time.Duration
	entries  map[Key]entry

	now func() time.Time // test hook
}

func New() *Cache {
	return &Cache{
		freshFor: DefaultFreshFor,
		entries:  make(map[Key]entry),
		now:      time.Now,
	}
}

// NewWithClock creates a cache with a substitute clock for tests.
func NewWithClock(freshFor time.Duration, now func() time.Time) *Cache {
	return &Cache{
		freshFor: freshFor,
		entries:  make(map[Key]entry),
		now:      now,
	}
}

// GetOrFetch returns the cached value for key while it is fresh. A missing or
// stale entry is re-fetched with the read retry budget; only a successful
// result replaces the cached value, and a fetch failure after retries is
// surfaced to the caller.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.freshFor {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err := Retry(ctx, ReadRetries, fetch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: v, fetchedAt: c.now()}
	c.mu.Unlock()
	return v, nil
}

// Peek reports the cached value without fetching. Stale entries are not
// returned.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.freshFor {
		return nil, false
	}
	return e.value, true
}

// Invalidate drops cached reads. With no params the whole family is dropped
// regardless of parameter value (the policy for catalog entities, where a
// rename must become visible under every parameterized query). With params,
// only those keys are dropped.
func (c *Cache) Invalidate(family string, params ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(params) == 0 {
		for k := range c.entries {
			if k.Family == family {
				delete(c.entries, k)
			}
		}
		return
	}
	for _, p := range params {
		delete(c.entries, Key{Family: family, Param: p})
	}
}

// Retry runs fn up to 1+retries times, stopping early when the context is
// done. The last error is returned.
func Retry(ctx context.Context, retries int, fn func(ctx context.Context) (any, error)) (any, error) {
	var v any
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return nil, err
			}
			return nil, ctxErr
		}
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
	}
	return nil, err
}

// Fetch is the typed convenience wrapper around GetOrFetch.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
