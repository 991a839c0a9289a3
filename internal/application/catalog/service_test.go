package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of catalog.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) RandomProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockSource) AllProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockSource) Product(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockSource) Store(ctx context.Context, id int64) (*catalog.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Store), args.Error(1)
}

func (m *MockSource) StoreProducts(ctx context.Context, storeID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockCache is a mock implementation of catalog.ListingCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]catalog.Product, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key string, products []catalog.Product, ttl time.Duration) error {
	args := m.Called(ctx, key, products, ttl)
	return args.Error(0)
}

func makeProducts(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{ID: int64(i + 1), Name: "Product"}
	}
	return out
}

func TestCatalogService_RandomProducts(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	products := makeProducts(3)
	source.On("RandomProducts", ctx, 60).Return(products, nil)

	svc := NewCatalogService(source, nil, Config{}, nil)
	got, err := svc.RandomProducts(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, products, got)
	source.AssertExpectations(t)
}

func TestCatalogService_RandomProducts_FallsBackToAll(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("RandomProducts", ctx, 2).Return(nil, errors.New("boom"))
	source.On("AllProducts", ctx).Return(makeProducts(5), nil)

	svc := NewCatalogService(source, nil, Config{}, nil)
	got, err := svc.RandomProducts(ctx, 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestCatalogService_RandomProducts_BothFail(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("RandomProducts", ctx, 60).Return(nil, errors.New("boom"))
	source.On("AllProducts", ctx).Return(nil, shared.ErrUpstreamUnavailable)

	svc := NewCatalogService(source, nil, Config{}, nil)
	_, err := svc.RandomProducts(ctx, 0)

	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestCatalogService_RandomProducts_UsesCache(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	cache := new(MockCache)
	cached := makeProducts(4)
	cache.On("Get", ctx, "products:random:60").Return(cached, true, nil)

	svc := NewCatalogService(source, cache, Config{}, nil)
	got, err := svc.RandomProducts(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	source.AssertNotCalled(t, "RandomProducts", mock.Anything, mock.Anything)
}

func TestCatalogService_RandomProducts_FillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	cache := new(MockCache)
	products := makeProducts(2)
	cache.On("Get", ctx, "products:random:10").Return(nil, false, nil)
	source.On("RandomProducts", ctx, 10).Return(products, nil)
	cache.On("Set", ctx, "products:random:10", products, 30*time.Second).Return(errors.New("redis down"))

	svc := NewCatalogService(source, cache, Config{CacheTTL: 30 * time.Second}, nil)
	got, err := svc.RandomProducts(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, products, got)
	cache.AssertExpectations(t)
}

func TestCatalogService_StorePage(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	store := &catalog.Store{ID: 9, Name: "Siam Goods"}
	source.On("Store", mock.Anything, int64(9)).Return(store, nil)
	source.On("StoreProducts", mock.Anything, int64(9)).Return(makeProducts(100), nil)

	svc := NewCatalogService(source, nil, Config{}, nil)
	page, err := svc.StorePage(ctx, 9, 3, 0)

	require.NoError(t, err)
	assert.Equal(t, "Siam Goods", page.Store.Name)
	assert.Equal(t, 3, page.Products.Page)
	assert.Equal(t, 48, page.Products.PageSize)
	assert.Equal(t, 3, page.Products.TotalPages)
	assert.Equal(t, int64(100), page.Products.Total)
	require.Len(t, page.Products.Items, 4)
	assert.Equal(t, int64(97), page.Products.Items[0].ID)
}

func TestCatalogService_StorePage_Errors(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Store", mock.Anything, int64(9)).Return(nil, shared.ErrNotFound)
	source.On("StoreProducts", mock.Anything, int64(9)).Return(makeProducts(1), nil).Maybe()

	svc := NewCatalogService(source, nil, Config{}, nil)
	_, err := svc.StorePage(ctx, 9, 1, 0)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.StorePage(ctx, 0, 1, 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCatalogService_SearchProducts(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("AllProducts", ctx).Return([]catalog.Product{
		{ID: 1, Name: "Silk scarf"},
		{ID: 2, Name: "Rice cooker"},
		{ID: 3, Name: "Silk pillow"},
	}, nil)

	svc := NewCatalogService(source, nil, Config{}, nil)
	got, err := svc.SearchProducts(ctx, "silk", 1, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, 2, got.TotalPages)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].ID)
}

func TestCatalogService_GetProduct(t *testing.T) {
	ctx := context.Background()
	source := new(MockSource)
	source.On("Product", ctx, int64(5)).Return(&catalog.Product{ID: 5}, nil)

	svc := NewCatalogService(source, nil, Config{}, nil)
	p, err := svc.GetProduct(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)

	_, err = svc.GetProduct(ctx, -1)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
