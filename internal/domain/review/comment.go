package review

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	// MaxCommentLength is the maximum comment length in characters
	MaxCommentLength = 1000
	// MinRating and MaxRating bound a star rating
	MinRating = 1
	MaxRating = 5
	// DefaultCommentPageSize is the page size used by the product page
	DefaultCommentPageSize = 10
)

// Comment is a product comment, optionally a reply to another comment
type Comment struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"productId"`
	UserID    int64      `json:"userId,omitempty"`
	UserName  string     `json:"userName"`
	Content   string     `json:"content"`
	Rating    int        `json:"rating,omitempty"`
	ParentID  *int64     `json:"parentId,omitempty"`
	Replies   []Comment  `json:"replies,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsReply reports whether the comment answers another comment
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

// NewComment is the input for posting a comment
type NewComment struct {
	ProductID int64  `json:"productId"`
	Content   string `json:"content"`
	Rating    int    `json:"rating,omitempty"`
	ParentID  *int64 `json:"parentId,omitempty"`
}

// Validate checks content length and, for top-level comments, the rating.
func (n *NewComment) Validate() error {
	n.Content = strings.TrimSpace(n.Content)
	if n.ProductID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "product id is required")
	}
	if n.Content == "" {
		return shared.NewDomainError("INVALID_INPUT", "comment content is required")
	}
	if utf8.RuneCountInString(n.Content) > MaxCommentLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
	}
	if n.ParentID == nil || n.Rating != 0 {
		if err := ValidateRating(n.Rating); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRating checks that a rating is between 1 and 5 stars
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}

// CommentStats summarises the ratings of a product's comments.
// Index 0 of the distributions holds one-star ratings.
type CommentStats struct {
	TotalComments     int64      `json:"totalComments"`
	AverageRating     float64    `json:"averageRating"`
	RatingCounts      [5]int64   `json:"ratingDistribution"`
	RatingPercentages [5]float64 `json:"ratingPercentages"`
}

// Normalize fills percentages and the average from the counts when the
// backend left them out.
func (s *CommentStats) Normalize() {
	var rated, weighted int64
	for i, n := range s.RatingCounts {
		rated += n
		weighted += n * int64(i+1)
	}
	if rated == 0 {
		return
	}
	var havePct bool
	for _, p := range s.RatingPercentages {
		if p != 0 {
			havePct = true
			break
		}
	}
	if !havePct {
		for i, n := range s.RatingCounts {
			s.RatingPercentages[i] = round1(float64(n) * 100 / float64(rated))
		}
	}
	if s.AverageRating == 0 {
		s.AverageRating = round1(float64(weighted) / float64(rated))
	}
	if s.TotalComments < rated {
		s.TotalComments = rated
	}
}

func round1(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(1).Float64()
	return v
}
