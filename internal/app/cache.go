package app

import (
	"context"
	"sync"
	"time"

	"ferreteria-bi/internal/core"
	"ferreteria-bi/internal/loader"
)

// defaultCacheTTL bounds how stale a served snapshot may be.
const defaultCacheTTL = 5 * time.Minute

// Snapshot is one immutable load of the source, enriched. Readers share it;
// nothing mutates it after construction.
type Snapshot struct {
	Dataset  *loader.Dataset
	Enriched []core.EnrichedProduct
}

// SnapshotCache serves one shared Snapshot, reloading through the given
// function once the TTL expires. Concurrent readers during a reload wait for
// the single in-flight load rather than stampeding the source.
type SnapshotCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	snap     *Snapshot
	loadedAt time.Time
}

// NewSnapshotCache constructs a cache with the given TTL; ttl <= 0 selects the
// 5-minute default.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SnapshotCache{ttl: ttl}
}

// Get returns the cached snapshot, reloading it through load if the TTL has
// expired or nothing is cached yet. A failed reload leaves the cache empty and
// returns the load error.
func (c *SnapshotCache) Get(ctx context.Context, load func(context.Context) (*Snapshot, error)) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && time.Since(c.loadedAt) < c.ttl {
		return c.snap, nil
	}

	snap, err := load(ctx)
	if err != nil {
		c.snap = nil
		return nil, err
	}
	c.snap = snap
	c.loadedAt = time.Now()
	return snap, nil
}

// Invalidate discards the cached snapshot so the next Get reloads.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}
