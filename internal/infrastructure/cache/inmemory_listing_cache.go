package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
)

type listingEntry struct {
	products  []catalog.Product
	expiresAt time.Time
}

// InMemoryListingCache implements catalog.ListingCache with a local map
type InMemoryListingCache struct {
	mu        sync.RWMutex
	entries   map[string]listingEntry
	now       func() time.Time
	sweeper   *sweeper
	closeOnce sync.Once
}

// NewInMemoryListingCache creates a new in-memory listing cache and starts
// its sweeper goroutine
func NewInMemoryListingCache() *InMemoryListingCache {
	c := &InMemoryListingCache{
		entries: make(map[string]listingEntry),
		now:     time.Now,
	}
	c.sweeper = startSweeper(defaultSweepInterval, c.sweep)
	return c
}

// Get returns a copy of the cached listing
func (c *InMemoryListingCache) Get(_ context.Context, key string) ([]catalog.Product, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(e.products), true, nil
}

// Set stores a copy of products for ttl. A non-positive ttl is a no-op.
func (c *InMemoryListingCache) Set(_ context.Context, key string, products []catalog.Product, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = listingEntry{
		products:  slices.Clone(products),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (c *InMemoryListingCache) Close() error {
	c.closeOnce.Do(c.sweeper.stop)
	return nil
}

func (c *InMemoryListingCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ catalog.ListingCache = (*InMemoryListingCache)(nil)
