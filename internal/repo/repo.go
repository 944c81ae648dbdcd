// Package repo collapses the per-entity CRUD wrappers into one generic
// repository parametrized by resource name, cache family, and order column.
// Every mutation invalidates the configured cache families on success; reads
// re-fetch from the remote store, there is no optimistic local mutation.
package repo

import (
	"context"

	"radio-fleet-console/internal/cache"
	"radio-fleet-console/internal/store"
)

// Config binds a repository to one entity family.
type Config struct {
	Resource string // remote store collection
	Family   string // cache key family for list reads
	OrderBy  string // default server-side order column
	Desc     bool

	// Invalidates lists every cache family a mutation to this entity can
	// stale, the own list family included. Families are cleared whole,
	// parameterized keys included: invalidating too narrowly is the
	// correctness risk, extra re-fetches are the accepted cost.
	Invalidates []string
}

type Repository[T any] struct {
	store *store.Client
	cache *cache.Cache
	cfg   Config
}

func New[T any](st *store.Client, c *cache.Cache, cfg Config) *Repository[T] {
	if len(cfg.Invalidates) == 0 {
		cfg.Invalidates = []string{cfg.Family}
	}
	return &Repository[T]{store: st, cache: c, cfg: cfg}
}

// ListAll fetches every record, server-side sorted. The remote store returns
// the full result set in one call; there is no pagination.
func (r *Repository[T]) ListAll(ctx context.Context) ([]T, error) {
	return cache.Fetch(ctx, r.cache, cache.Key{Family: r.cfg.Family}, func(ctx context.Context) ([]T, error) {
		return r.fetch(ctx, store.Options{Order: r.cfg.OrderBy, Desc: r.cfg.Desc})
	})
}

// ListWhere fetches the records matching an equality predicate, cached under
// a parameterized key.
func (r *Repository[T]) ListWhere(ctx context.Context, column, value string) ([]T, error) {
	key := cache.Key{Family: r.cfg.Family, Param: column + "=" + value}
	return cache.Fetch(ctx, r.cache, key, func(ctx context.Context) ([]T, error) {
		return r.fetch(ctx, store.Options{
			Filters: []store.Filter{{Column: column, Value: value}},
			Order:   r.cfg.OrderBy,
			Desc:    r.cfg.Desc,
		})
	})
}

// ListRecent fetches the n most recent records by the default order column,
// uncached (callers cache at the aggregate level).
func (r *Repository[T]) ListRecent(ctx context.Context, n int) ([]T, error) {
	return r.fetch(ctx, store.Options{Order: r.cfg.OrderBy, Desc: r.cfg.Desc, Limit: n})
}

// GetBy looks up a single record by an equality predicate. Absence is not an
// error: a nil record is returned when no row matches.
func (r *Repository[T]) GetBy(ctx context.Context, column, value string) (*T, error) {
	var rows []T
	err := r.store.Select(ctx, r.cfg.Resource, store.Options{
		Filters: []store.Filter{{Column: column, Value: value}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Get looks up a single record by primary key.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.GetBy(ctx, "id", id)
}

// Create inserts a record and returns the store's representation of it. A
// store rejection (constraint violation included) surfaces as a
// TransportError carrying the response body text.
func (r *Repository[T]) Create(ctx context.Context, payload any) (*T, error) {
	var created T
	_, err := cache.Retry(ctx, cache.WriteRetries, func(ctx context.Context) (any, error) {
		return nil, r.store.Insert(ctx, r.cfg.Resource, payload, &created)
	})
	if err != nil {
		return nil, err
	}
	r.Invalidate()
	return &created, nil
}

// Update applies a partial update; only the fields present in patch are sent.
func (r *Repository[T]) Update(ctx context.Context, id string, patch any) (*T, error) {
	var updated T
	_, err := cache.Retry(ctx, cache.WriteRetries, func(ctx context.Context) (any, error) {
		return nil, r.store.Update(ctx, r.cfg.Resource, store.ByID(id), patch, &updated)
	})
	if err != nil {
		return nil, err
	}
	r.Invalidate()
	return &updated, nil
}

// Delete removes a record by primary key. Idempotent from the caller's
// perspective: no existence check is performed.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	_, err := cache.Retry(ctx, cache.WriteRetries, func(ctx context.Context) (any, error) {
		return nil, r.store.Delete(ctx, r.cfg.Resource, store.ByID(id))
	})
	if err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Count returns the row count via the store's count directive.
func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx, r.cfg.Resource)
}

// Invalidate clears every cache family this entity's mutations can stale.
// Exposed for cross-entity flows that mutate outside the repository (history
// appends, cascading deletes).
func (r *Repository[T]) Invalidate() {
	for _, family := range r.cfg.Invalidates {
		r.cache.Invalidate(family)
	}
}

func (r *Repository[T]) fetch(ctx context.Context, opts store.Options) ([]T, error) {
	var rows []T
	if err := r.store.Select(ctx, r.cfg.Resource, opts, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
