package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/cart"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/cart"
)

// CartHandler forwards cart calls for the caller's backend session
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with its totals
// GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.cartService.Get(c.Request.Context(), getSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Add puts a product in the cart
// POST /cart/items
func (h *CartHandler) Add(c *gin.Context) {
	var req cart.AddItem
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	view, err := h.cartService.Add(c.Request.Context(), getSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Update changes the quantity of a line
// PUT /cart/items/:id
func (h *CartHandler) Update(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}
	var req cart.UpdateItem
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	view, err := h.cartService.Update(c.Request.Context(), getSession(c), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Remove drops a line
// DELETE /cart/items/:id
func (h *CartHandler) Remove(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}
	view, err := h.cartService.Remove(c.Request.Context(), getSession(c), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Select includes or excludes a line from checkout
// PATCH /cart/items/:id/select
func (h *CartHandler) Select(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}
	var req cart.SelectItem
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	view, err := h.cartService.Select(c.Request.Context(), getSession(c), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Clear empties the cart
// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), getSession(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count returns the badge count
// GET /cart/count
func (h *CartHandler) Count(c *gin.Context) {
	n, err := h.cartService.Count(c.Request.Context(), getSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"count": n})
}
