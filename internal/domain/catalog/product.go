package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MediaType distinguishes images from videos in a product gallery
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaItem is one entry of a product gallery
type MediaItem struct {
	ID           int64     `json:"id"`
	Type         MediaType `json:"type"`
	URL          string    `json:"url"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Alt          string    `json:"alt,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	Primary      bool      `json:"isPrimary"`
}

// Store is a seller storefront
type Store struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Product is a product as served by the store backend. Prices are in THB.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	MediaItems  []MediaItem     `json:"mediaItems,omitempty"`
	StoreID     int64           `json:"storeId,omitempty"`
	StoreName   string          `json:"storeName,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	ReviewCount int             `json:"reviewCount,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CoverImage picks the image shown on product cards: the primary image, then
// the first image by display order, then the legacy image URL.
func (p Product) CoverImage() string {
	var cover *MediaItem
	for i := range p.MediaItems {
		m := &p.MediaItems[i]
		if m.Type != MediaTypeImage || m.URL == "" {
			continue
		}
		if m.Primary {
			return m.URL
		}
		if cover == nil || m.DisplayOrder < cover.DisplayOrder {
			cover = m
		}
	}
	if cover != nil {
		return cover.URL
	}
	return p.ImageURL
}

// InStock reports whether at least one unit is available
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Matches reports whether the product matches a free-text query on name,
// description or category. An empty query matches everything.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

// Filter returns the products that match query, keeping their order.
func Filter(products []Product, query string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}
