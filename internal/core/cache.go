package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNotLoaded is reported by readiness checks before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// LoadFunc builds a dataset from scratch.
type LoadFunc func(ctx context.Context) (*Dataset, error)

// DatasetCache memoizes the dataset for the process lifetime.
//
// The first successful Get publishes the dataset; later calls return the
// same pointer without touching any source. Concurrent first calls are
// serialized so exactly one load runs at a time. A failed load is not
// cached and the next Get retries.
type DatasetCache struct {
	mu      sync.Mutex
	dataset atomic.Pointer[Dataset]
	load    LoadFunc
}

// NewDatasetCache creates an empty cache around load.
func NewDatasetCache(load LoadFunc) *DatasetCache {
	return &DatasetCache{load: load}
}

// Get returns the cached dataset, loading it on first use.
func (c *DatasetCache) Get(ctx context.Context) (*Dataset, error) {
	if ds := c.dataset.Load(); ds != nil {
		return ds, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have finished while we waited.
	if ds := c.dataset.Load(); ds != nil {
		return ds, nil
	}

	ds, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.dataset.Store(ds)
	return ds, nil
}

// Loaded returns the cached dataset without loading. The second result is
// false before the first successful load.
func (c *DatasetCache) Loaded() (*Dataset, bool) {
	ds := c.dataset.Load()
	return ds, ds != nil
}

// CheckReadiness reports ErrNotLoaded until a dataset is cached.
func (c *DatasetCache) CheckReadiness(_ context.Context) error {
	if c.dataset.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}
