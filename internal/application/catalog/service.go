package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRandomLimit   = 60
	DefaultStorePageSize = 48
	DefaultCacheTTL      = time.Minute

	allProductsCacheKey = "products:all"
)

// Config holds catalog listing settings
type Config struct {
	RandomLimit   int
	StorePageSize int
	CacheTTL      time.Duration
}

// CatalogService serves product listings from the store backend
type CatalogService struct {
	source catalog.Source
	cache  catalog.ListingCache
	cfg    Config
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(source catalog.Source, cache catalog.ListingCache, cfg Config, logger *zap.Logger) *CatalogService {
	if cfg.RandomLimit <= 0 {
		cfg.RandomLimit = DefaultRandomLimit
	}
	if cfg.StorePageSize <= 0 {
		cfg.StorePageSize = DefaultStorePageSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, cache: cache, cfg: cfg, logger: logger}
}

// RandomProducts returns the home page selection. When the random endpoint
// fails it falls back to the full listing cut to limit.
func (s *CatalogService) RandomProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = s.cfg.RandomLimit
	}
	key := fmt.Sprintf("products:random:%d", limit)
	if products, ok := s.cached(ctx, key); ok {
		return products, nil
	}

	products, err := s.source.RandomProducts(ctx, limit)
	if err != nil {
		s.logger.Warn("random products failed, falling back to full listing",
			zap.Int("limit", limit), zap.Error(err))
		products, err = s.allProducts(ctx)
		if err != nil {
			return nil, err
		}
		if len(products) > limit {
			products = products[:limit]
		}
	}

	s.store(ctx, key, products)
	return products, nil
}

// GetProduct returns one product
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "product id must be positive")
	}
	return s.source.Product(ctx, id)
}

// SearchProducts matches query against the full listing and returns one page
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, perPage int) (shared.Paginated[catalog.Product], error) {
	if perPage <= 0 {
		perPage = s.cfg.StorePageSize
	}
	products, err := s.allProducts(ctx)
	if err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}
	return paginate(catalog.Filter(products, strings.TrimSpace(query)), page, perPage), nil
}

// StorePage is a store header with one page of its products
type StorePage struct {
	Store    *catalog.Store
	Products shared.Paginated[catalog.Product]
}

// StorePage loads the store and its products together and pages the
// products locally.
func (s *CatalogService) StorePage(ctx context.Context, storeID int64, page, perPage int) (*StorePage, error) {
	if storeID <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "store id must be positive")
	}
	if perPage <= 0 {
		perPage = s.cfg.StorePageSize
	}

	var (
		store    *catalog.Store
		products []catalog.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		store, err = s.source.Store(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.source.StoreProducts(gctx, storeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &StorePage{
		Store:    store,
		Products: paginate(products, page, perPage),
	}, nil
}

func (s *CatalogService) allProducts(ctx context.Context) ([]catalog.Product, error) {
	if products, ok := s.cached(ctx, allProductsCacheKey); ok {
		return products, nil
	}
	products, err := s.source.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, allProductsCacheKey, products)
	return products, nil
}

func (s *CatalogService) cached(ctx context.Context, key string) ([]catalog.Product, bool) {
	if s.cache == nil {
		return nil, false
	}
	products, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("listing cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return products, ok
}

func (s *CatalogService) store(ctx context.Context, key string, products []catalog.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, products, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("listing cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func paginate(products []catalog.Product, page, perPage int) shared.Paginated[catalog.Product] {
	page = pagination.ClampPage(page, pagination.TotalPages(len(products), perPage))
	return shared.NewPaginated(pagination.Slice(products, page, perPage), int64(len(products)), page, perPage)
}
