package catalog

import (
	"context"
	"time"
)

// Source reads catalog data from the store backend
type Source interface {
	// RandomProducts returns up to limit products in random order
	RandomProducts(ctx context.Context, limit int) ([]Product, error)

	// AllProducts returns every listed product
	AllProducts(ctx context.Context) ([]Product, error)

	// Product returns one product
	Product(ctx context.Context, id int64) (*Product, error)

	// Store returns one store
	Store(ctx context.Context, id int64) (*Store, error)

	// StoreProducts returns every product of a store
	StoreProducts(ctx context.Context, storeID int64) ([]Product, error)
}

// ListingCache keeps recently fetched product listings
type ListingCache interface {
	// Get returns the cached listing and whether it was found
	Get(ctx context.Context, key string) ([]Product, bool, error)

	// Set stores a listing for ttl
	Set(ctx context.Context, key string, products []Product, ttl time.Duration) error
}
