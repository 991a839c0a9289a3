// Package cart holds the read-side view of a shopping cart. The backend owns
// cart state; this package only describes and summarises it.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item is one line of a cart
type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	StoreID     int64           `json:"storeId,omitempty"`
	StoreName   string          `json:"storeName,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Selected    bool            `json:"selected"`
	Stock       int             `json:"stock,omitempty"`
}

// Purchasable reports whether the line is paid for at checkout
func (i Item) Purchasable() bool {
	return i.Selected && i.Stock > 0
}

// LineTotal is price times quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the backend's view of a user's cart
type Cart struct {
	Items []Item `json:"items"`
}

// Summary is the totals block shown next to the cart
type Summary struct {
	ItemCount        int             `json:"itemCount"`
	Quantity         int             `json:"quantity"`
	SelectedCount    int             `json:"selectedCount"`
	SelectedQuantity int             `json:"selectedQuantity"`
	SelectedSubtotal decimal.Decimal `json:"selectedSubtotal"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
}

// Summarize computes counts and totals. Only selected lines that are in
// stock are paid for at checkout; GrandTotal covers every line.
func Summarize(c Cart) Summary {
	s := Summary{
		SelectedSubtotal: decimal.Zero,
		GrandTotal:       decimal.Zero,
	}
	for _, it := range c.Items {
		line := it.LineTotal()
		s.ItemCount++
		s.Quantity += it.Quantity
		s.GrandTotal = s.GrandTotal.Add(line)
		if it.Purchasable() {
			s.SelectedCount++
			s.SelectedQuantity += it.Quantity
			s.SelectedSubtotal = s.SelectedSubtotal.Add(line)
		}
	}
	return s
}

// AddItem is the body forwarded to the backend when adding to cart
type AddItem struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateItem changes the quantity of a cart line
type UpdateItem struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

// SelectItem includes or excludes a line from checkout
type SelectItem struct {
	Selected bool `json:"selected"`
}

// Backend forwards cart operations. session is the caller's cookie header
// and is passed through unchanged.
type Backend interface {
	Get(ctx context.Context, session string) (*Cart, error)
	Add(ctx context.Context, session string, in AddItem) (*Cart, error)
	Update(ctx context.Context, session string, itemID int64, in UpdateItem) (*Cart, error)
	Remove(ctx context.Context, session string, itemID int64) (*Cart, error)
	Clear(ctx context.Context, session string) error
	Count(ctx context.Context, session string) (int, error)
	Select(ctx context.Context, session string, itemID int64, in SelectItem) (*Cart, error)
}
