package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/dto"
)

// CatalogHandler serves product and store listings
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ProductResponse is a product with its resolved cover image
type ProductResponse struct {
	catalog.Product
	CoverImage string `json:"coverImage"`
}

func toProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{Product: p, CoverImage: p.CoverImage()}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// StorePageResponse is the store header plus one page of its products
type StorePageResponse struct {
	Store    *catalog.Store    `json:"store"`
	Products []ProductResponse `json:"products"`
	Meta     *dto.Meta         `json:"meta"`
}

// RandomProducts returns the home page selection
// GET /products/random?limit=
func (h *CatalogHandler) RandomProducts(c *gin.Context) {
	limit, ok := h.boundedQueryInt(c, "limit", 0, MaxPageSize)
	if !ok {
		return
	}
	products, err := h.catalogService.RandomProducts(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponses(products))
}

// GetProduct returns one product
// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(*product))
}

// Search matches q against names, descriptions and categories
// GET /products/search?q=&page=&per_page=
func (h *CatalogHandler) Search(c *gin.Context) {
	perPage, ok := h.boundedQueryInt(c, "per_page", 0, MaxPageSize)
	if !ok {
		return
	}
	result, err := h.catalogService.SearchProducts(c.Request.Context(),
		c.Query("q"), queryInt(c, "page", 1), perPage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedResponse(mapPage(result, toProductResponse)))
}

// StorePage returns a store and one page of its products
// GET /stores/:id?page=&per_page=
func (h *CatalogHandler) StorePage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	perPage, ok := h.boundedQueryInt(c, "per_page", 0, MaxPageSize)
	if !ok {
		return
	}
	sp, err := h.catalogService.StorePage(c.Request.Context(), id, queryInt(c, "page", 1), perPage)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, StorePageResponse{
		Store:    sp.Store,
		Products: toProductResponses(sp.Products.Items),
		Meta:     dto.NewPageMeta(sp.Products),
	})
}
