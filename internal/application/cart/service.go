package cart

import (
	"context"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/cart"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
)

// View is a cart together with its totals
type View struct {
	Cart    *cart.Cart   `json:"cart"`
	Summary cart.Summary `json:"summary"`
}

func newView(c *cart.Cart) *View {
	if c == nil {
		c = &cart.Cart{}
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return &View{Cart: c, Summary: cart.Summarize(*c)}
}

// CartService forwards cart calls to the backend and summarises the result
type CartService struct {
	backend cart.Backend
}

// NewCartService creates a new CartService
func NewCartService(backend cart.Backend) *CartService {
	return &CartService{backend: backend}
}

func requireSession(session string) error {
	if session == "" {
		return shared.ErrUnauthorized
	}
	return nil
}

// Get returns the caller's cart
func (s *CartService) Get(ctx context.Context, session string) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	c, err := s.backend.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

// Add puts a product in the cart
func (s *CartService) Add(ctx context.Context, session string, in cart.AddItem) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	c, err := s.backend.Add(ctx, session, in)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

// Update changes the quantity of a line
func (s *CartService) Update(ctx context.Context, session string, itemID int64, in cart.UpdateItem) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	c, err := s.backend.Update(ctx, session, itemID, in)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

// Remove drops a line
func (s *CartService) Remove(ctx context.Context, session string, itemID int64) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	c, err := s.backend.Remove(ctx, session, itemID)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

// Select includes or excludes a line from checkout
func (s *CartService) Select(ctx context.Context, session string, itemID int64, in cart.SelectItem) (*View, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	c, err := s.backend.Select(ctx, session, itemID, in)
	if err != nil {
		return nil, err
	}
	return newView(c), nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, session string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	return s.backend.Clear(ctx, session)
}

// Count returns the badge count. Anonymous visitors have an empty cart.
func (s *CartService) Count(ctx context.Context, session string) (int, error) {
	if session == "" {
		return 0, nil
	}
	return s.backend.Count(ctx, session)
}
