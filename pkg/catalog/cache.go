package catalog

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/HerbHall/powerparts/pkg/models"
)

// Direct loads every dataset fresh on each call. It holds no state.
type Direct struct{}

func (Direct) Mosfets(ctx context.Context, dataset string) (*Snapshot[models.Mosfet], error) {
	return LoadMosfets(ctx, dataset)
}

func (Direct) Inductors(ctx context.Context, dataset string) (*Snapshot[models.Inductor], error) {
	return LoadInductors(ctx, dataset)
}

func (Direct) Capacitors(ctx context.Context, dataset string) (*Snapshot[models.Capacitor], error) {
	return LoadCapacitors(ctx, dataset)
}

// Cache is a read-through cache of normalized snapshots keyed by family and
// dataset. A snapshot is built at most once per key (concurrent first reads
// share one load) and is read-only afterwards. Failed loads are not cached.
type Cache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]any
	// gens counts invalidations per dataset. A load started under an older
	// generation is returned to its callers but never stored.
	gens map[string]uint64
}

// NewCache creates an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any), gens: make(map[string]uint64)}
}

func (c *Cache) Mosfets(ctx context.Context, dataset string) (*Snapshot[models.Mosfet], error) {
	return cached(ctx, c, models.FamilyMosfet, dataset, LoadMosfets)
}

func (c *Cache) Inductors(ctx context.Context, dataset string) (*Snapshot[models.Inductor], error) {
	return cached(ctx, c, models.FamilyInductor, dataset, LoadInductors)
}

func (c *Cache) Capacitors(ctx context.Context, dataset string) (*Snapshot[models.Capacitor], error) {
	return cached(ctx, c, models.FamilyCapacitor, dataset, LoadCapacitors)
}

// Invalidate drops every cached snapshot of dataset. Snapshots already handed
// out stay valid; the next read builds a new one, even while a load begun
// before the call is still running.
func (c *Cache) Invalidate(dataset string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[dataset]++
	for _, f := range models.Families {
		delete(c.entries, cacheKey(f, dataset))
	}
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cached[T any](ctx context.Context, c *Cache, family models.Family, dataset string,
	load func(context.Context, string) (*Snapshot[T], error)) (*Snapshot[T], error) {
	key := cacheKey(family, dataset)

	c.mu.RLock()
	hit, ok := c.entries[key]
	gen := c.gens[dataset]
	c.mu.RUnlock()
	if ok {
		return hit.(*Snapshot[T]), nil
	}

	flight := key + "|" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		snap, err := load(ctx, dataset)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gens[dataset] == gen {
			c.entries[key] = snap
		}
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot[T]), nil
}

func cacheKey(f models.Family, dataset string) string {
	return string(f) + "|" + dataset
}
