package review

import (
	"strings"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
)

// Review is a rated product review
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewReview is the input for posting a review
type NewReview struct {
	ProductID int64  `json:"productId"`
	UserID    int64  `json:"userId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Validate checks the review before it is sent to the backend
func (n *NewReview) Validate() error {
	n.Comment = strings.TrimSpace(n.Comment)
	if n.ProductID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "product id is required")
	}
	if n.UserID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "user id is required")
	}
	return ValidateRating(n.Rating)
}
