package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/cart"
)

const (
	cartPath       = "/api/session-cart"
	cartAddPath    = cartPath + "/add"
	cartUpdatePath = cartPath + "/update/%d"
	cartRemovePath = cartPath + "/remove/%d"
	cartClearPath  = cartPath + "/clear"
	cartCountPath  = cartPath + "/count"
	cartSelectPath = cartPath + "/items/%d/select"
)

// CartBackend forwards cart operations to the session cart of the backend
type CartBackend struct {
	client *Client
}

// NewCartBackend creates a cart.Backend backed by the store backend
func NewCartBackend(client *Client) *CartBackend {
	return &CartBackend{client: client}
}

var _ cart.Backend = (*CartBackend)(nil)

// Get returns the session's cart
func (b *CartBackend) Get(ctx context.Context, session string) (*cart.Cart, error) {
	var out cartResponse
	if err := b.client.do(ctx, http.MethodGet, cartPath, session, nil, &out); err != nil {
		return nil, err
	}
	if err := rejected(out.Success, out.Message, "failed to load cart"); err != nil {
		return nil, err
	}

	c := &cart.Cart{Items: make([]cart.Item, 0, len(out.Items))}
	for _, item := range out.Items {
		c.Items = append(c.Items, item.toDomain())
	}
	return c, nil
}

// Add puts a product into the cart and returns the updated cart
func (b *CartBackend) Add(ctx context.Context, session string, in cart.AddItem) (*cart.Cart, error) {
	if err := b.mutate(ctx, http.MethodPost, cartAddPath, session, in, "failed to add to cart"); err != nil {
		return nil, err
	}
	return b.Get(ctx, session)
}

// Update changes the quantity of a line
func (b *CartBackend) Update(ctx context.Context, session string, itemID int64, in cart.UpdateItem) (*cart.Cart, error) {
	if err := b.mutate(ctx, http.MethodPut, fmt.Sprintf(cartUpdatePath, itemID), session, in, "failed to update quantity"); err != nil {
		return nil, err
	}
	return b.Get(ctx, session)
}

// Remove deletes a line
func (b *CartBackend) Remove(ctx context.Context, session string, itemID int64) (*cart.Cart, error) {
	if err := b.mutate(ctx, http.MethodDelete, fmt.Sprintf(cartRemovePath, itemID), session, nil, "failed to remove item"); err != nil {
		return nil, err
	}
	return b.Get(ctx, session)
}

// Clear empties the cart
func (b *CartBackend) Clear(ctx context.Context, session string) error {
	return b.mutate(ctx, http.MethodDelete, cartClearPath, session, nil, "failed to clear cart")
}

// Count returns the number of lines in the cart
func (b *CartBackend) Count(ctx context.Context, session string) (int, error) {
	var out cartCountResponse
	if err := b.client.do(ctx, http.MethodGet, cartCountPath, session, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Select marks a line for checkout. The backend answers with an empty body.
func (b *CartBackend) Select(ctx context.Context, session string, itemID int64, in cart.SelectItem) (*cart.Cart, error) {
	if err := b.client.do(ctx, http.MethodPatch, fmt.Sprintf(cartSelectPath, itemID), session, in, nil); err != nil {
		return nil, err
	}
	return b.Get(ctx, session)
}

func (b *CartBackend) mutate(ctx context.Context, method, path, session string, in any, fallback string) error {
	var out basicResponse
	if err := b.client.do(ctx, method, path, session, in, &out); err != nil {
		return err
	}
	return rejected(out.Success, out.Message, fallback)
}
