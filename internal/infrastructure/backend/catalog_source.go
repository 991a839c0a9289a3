package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
)

const (
	productsPath      = "/api/products"
	randomProductPath = "/api/products/random"
	productPath       = "/api/products/%d"
	storeProductsPath = "/api/products/store/%d"
	storePath         = "/api/stores/%d"
)

// CatalogSource reads products and stores from the backend
type CatalogSource struct {
	client *Client
}

// NewCatalogSource creates a catalog.Source backed by the store backend
func NewCatalogSource(client *Client) *CatalogSource {
	return &CatalogSource{client: client}
}

var _ catalog.Source = (*CatalogSource)(nil)

// RandomProducts returns up to limit products in random order
func (s *CatalogSource) RandomProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out []productDTO
	if err := s.client.do(ctx, http.MethodGet, randomProductPath+"?"+q.Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	return productsToDomain(out), nil
}

// AllProducts returns every listed product
func (s *CatalogSource) AllProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []productDTO
	if err := s.client.do(ctx, http.MethodGet, productsPath, "", nil, &out); err != nil {
		return nil, err
	}
	return productsToDomain(out), nil
}

// Product returns one product
func (s *CatalogSource) Product(ctx context.Context, id int64) (*catalog.Product, error) {
	var out productDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(productPath, id), "", nil, &out); err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

// Store returns one store
func (s *CatalogSource) Store(ctx context.Context, id int64) (*catalog.Store, error) {
	var out catalog.Store
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(storePath, id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StoreProducts returns every product of a store
func (s *CatalogSource) StoreProducts(ctx context.Context, storeID int64) ([]catalog.Product, error) {
	var out []productDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(storeProductsPath, storeID), "", nil, &out); err != nil {
		return nil, err
	}
	return productsToDomain(out), nil
}
