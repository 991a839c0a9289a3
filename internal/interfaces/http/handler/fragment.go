package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/view"
)

const htmlContentType = "text/html; charset=utf-8"

// Limits of the standalone pagination fragment
const (
	MaxFragmentWindow = 15
	MaxFragmentTotal  = 100000
)

// FragmentHandler serves server-rendered HTML fragments
type FragmentHandler struct {
	BaseHandler
	renderer       *view.Renderer
	catalogService *catalogapp.CatalogService
}

// NewFragmentHandler creates a new FragmentHandler
func NewFragmentHandler(renderer *view.Renderer, catalogService *catalogapp.CatalogService) *FragmentHandler {
	return &FragmentHandler{renderer: renderer, catalogService: catalogService}
}

// Pagination renders the page control for the given position
// GET /fragments/pagination?current=&total=&window=&base=
func (h *FragmentHandler) Pagination(c *gin.Context) {
	total, ok := h.boundedQueryInt(c, "total", 1, MaxFragmentTotal)
	if !ok {
		return
	}
	total = max(total, 1)
	current := pagination.ClampPage(queryInt(c, "current", 1), total)
	window, ok := h.boundedQueryInt(c, "window", pagination.DefaultWindowSize, MaxFragmentWindow)
	if !ok {
		return
	}
	if window < 1 {
		h.BadRequest(c, "window must be at least 1")
		return
	}

	var buf bytes.Buffer
	ctl := pagination.NewControl(current, total, window)
	if err := h.renderer.Pagination(&buf, ctl, c.DefaultQuery("base", c.Request.URL.Path)); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// StoreProducts renders one page of a store's product grid
// GET /fragments/stores/:id/products?page=
func (h *FragmentHandler) StoreProducts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	sp, err := h.catalogService.StorePage(c.Request.Context(), id, queryInt(c, "page", 1), 0)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	p := sp.Products
	pv, err := view.NewPaginationView(
		pagination.NewControl(p.Page, p.TotalPages, pagination.DefaultWindowSize),
		"/stores/"+strconv.FormatInt(id, 10),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Products(&buf, view.ProductsView{Products: p.Items, Total: p.Total, Pagination: pv}); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
