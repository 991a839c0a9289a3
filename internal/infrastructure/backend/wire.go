package backend

import (
	"github.com/shopspring/decimal"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/cart"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/review"
)

type storeRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productDTO struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Stock       int                 `json:"stock"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"imageUrl"`
	MediaItems  []catalog.MediaItem `json:"mediaItems"`
	StoreID     int64               `json:"storeId"`
	StoreName   string              `json:"storeName"`
	Store       *storeRef           `json:"store"`
	Rating      float64             `json:"rating"`
	ReviewCount int                 `json:"reviewCount"`
	CreatedAt   string              `json:"createdAt"`
}

func (p productDTO) toDomain() catalog.Product {
	out := catalog.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		MediaItems:  p.MediaItems,
		StoreID:     p.StoreID,
		StoreName:   p.StoreName,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		CreatedAt:   parseTime(p.CreatedAt),
	}
	if p.Store != nil {
		if out.StoreID == 0 {
			out.StoreID = p.Store.ID
		}
		if out.StoreName == "" {
			out.StoreName = p.Store.Name
		}
	}
	return out
}

func productsToDomain(in []productDTO) []catalog.Product {
	out := make([]catalog.Product, 0, len(in))
	for _, p := range in {
		out = append(out, p.toDomain())
	}
	return out
}

type userRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productRef struct {
	ID int64 `json:"id"`
}

type commentDTO struct {
	ID            int64        `json:"id"`
	User          *userRef     `json:"user"`
	Product       *productRef  `json:"product"`
	Content       string       `json:"content"`
	Rating        *int         `json:"rating"`
	ParentComment *commentDTO  `json:"parentComment"`
	Replies       []commentDTO `json:"replies"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     string       `json:"updatedAt"`
	Edited        bool         `json:"isEdited"`
}

func (c commentDTO) toDomain() review.Comment {
	out := review.Comment{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: parseTime(c.CreatedAt),
		Replies:   commentsToDomain(c.Replies),
	}
	if c.User != nil {
		out.UserID = c.User.ID
		out.UserName = c.User.Name
	}
	if c.Product != nil {
		out.ProductID = c.Product.ID
	}
	if c.Rating != nil {
		out.Rating = *c.Rating
	}
	if c.ParentComment != nil {
		id := c.ParentComment.ID
		out.ParentID = &id
	}
	if c.Edited && c.UpdatedAt != "" {
		t := parseTime(c.UpdatedAt)
		out.UpdatedAt = &t
	}
	return out
}

func commentsToDomain(in []commentDTO) []review.Comment {
	if len(in) == 0 {
		return nil
	}
	out := make([]review.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, c.toDomain())
	}
	return out
}

// commentPageDTO is a Spring Data page of comments
type commentPageDTO struct {
	Content       []commentDTO `json:"content"`
	TotalPages    int          `json:"totalPages"`
	TotalElements int64        `json:"totalElements"`
}

type commentStatsDTO struct {
	TotalComments       int64   `json:"totalComments"`
	RatedComments       int64   `json:"ratedComments"`
	AverageRating       float64 `json:"averageRating"`
	OneStarCount        int64   `json:"oneStarCount"`
	TwoStarCount        int64   `json:"twoStarCount"`
	ThreeStarCount      int64   `json:"threeStarCount"`
	FourStarCount       int64   `json:"fourStarCount"`
	FiveStarCount       int64   `json:"fiveStarCount"`
	OneStarPercentage   float64 `json:"oneStarPercentage"`
	TwoStarPercentage   float64 `json:"twoStarPercentage"`
	ThreeStarPercentage float64 `json:"threeStarPercentage"`
	FourStarPercentage  float64 `json:"fourStarPercentage"`
	FiveStarPercentage  float64 `json:"fiveStarPercentage"`
}

func (s commentStatsDTO) toDomain() *review.CommentStats {
	return &review.CommentStats{
		TotalComments: s.TotalComments,
		AverageRating: s.AverageRating,
		RatingCounts: [5]int64{
			s.OneStarCount, s.TwoStarCount, s.ThreeStarCount, s.FourStarCount, s.FiveStarCount,
		},
		RatingPercentages: [5]float64{
			s.OneStarPercentage, s.TwoStarPercentage, s.ThreeStarPercentage, s.FourStarPercentage, s.FiveStarPercentage,
		},
	}
}

type newCommentDTO struct {
	Content string `json:"content"`
	Rating  *int   `json:"rating"`
}

type newReplyDTO struct {
	Content string `json:"content"`
}

type reviewDTO struct {
	ID        int64  `json:"id"`
	Product   int64  `json:"product"`
	User      int64  `json:"user"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

type newReviewDTO struct {
	Product int64  `json:"product"`
	User    int64  `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r reviewDTO) toDomain() review.Review {
	return review.Review{
		ID:        r.ID,
		ProductID: r.Product,
		UserID:    r.User,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

type cartItemDTO struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	StoreID      int64           `json:"storeId"`
	StoreName    string          `json:"storeName"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Stock        int             `json:"stock"`
	Selected     *bool           `json:"selected"`
}

func (i cartItemDTO) toDomain() cart.Item {
	return cart.Item{
		ID:          i.ID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		ImageURL:    i.ProductImage,
		StoreID:     i.StoreID,
		StoreName:   i.StoreName,
		Price:       i.Price,
		Quantity:    i.Quantity,
		Stock:       i.Stock,
		// items the backend never marked stay selected
		Selected: i.Selected == nil || *i.Selected,
	}
}

type cartResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Items   []cartItemDTO `json:"items"`
}

type cartCountResponse struct {
	Count int `json:"count"`
}

type basicResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
