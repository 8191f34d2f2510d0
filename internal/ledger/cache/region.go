package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultRegionSize is used when NewRegion receives a non-positive size.
const DefaultRegionSize = 256

// Region is one named cache partition.
type Region struct {
	name string

	mu  sync.RWMutex
	gen uint64
	lru *lru.Cache[string, any]

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// RegionStats is a point-in-time view of a Region's counters.
type RegionStats struct {
	Name       string
	Hits       int64
	Misses     int64
	Len        int
	Generation uint64
}

// NewRegion builds a Region holding at most size entries.
func NewRegion(name string, size int) *Region {
	if size < 1 {
		size = DefaultRegionSize
	}

	c, err := lru.New[string, any](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(fmt.Sprintf("cache: region %q: %v", name, err))
	}

	return &Region{name: name, lru: c}
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Invalidate drops every entry and fences out in-flight computations.
func (r *Region) Invalidate() {
	r.mu.Lock()
	r.gen++
	r.lru.Purge()
	r.mu.Unlock()
}

func (r *Region) Stats() RegionStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RegionStats{
		Name:       r.name,
		Hits:       r.hits.Load(),
		Misses:     r.misses.Load(),
		Len:        r.lru.Len(),
		Generation: r.gen,
	}
}

// Remember returns the cached value for key or computes and caches it.
//
// Values handed out are always passed through clone so callers can never
// mutate what the region holds. Concurrent misses for the same key within one
// generation share a single compute call. The shared call runs detached from
// the cancellation of whichever caller started it; each caller stops waiting
// when its own ctx is done. Errors are returned but not cached.
func Remember[T any](ctx context.Context, r *Region, key string, clone func(T) T, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	r.mu.RLock()
	raw, ok := r.lru.Get(key)
	gen := r.gen
	r.mu.RUnlock()

	if ok {
		if v, typed := raw.(T); typed {
			r.hits.Add(1)
			slog.DebugContext(ctx, "cache hit", "region", r.name, "key", key)
			return clone(v), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	r.misses.Add(1)
	slog.DebugContext(ctx, "cache miss", "region", r.name, "key", key)

	flight := key + "#" + strconv.FormatUint(gen, 10)
	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(flight, func() (any, error) {
		v, err := compute(detached)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.gen == gen {
			r.lru.Add(key, v)
		}
		r.mu.Unlock()

		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return clone(res.Val.(T)), nil
	}
}
