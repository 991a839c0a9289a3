package handler

import (
	"github.com/gin-gonic/gin"

	reviewapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/review"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/review"
)

// ReviewHandler serves product comments and reviews
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateCommentRequest is a new comment or a reply to one
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	Rating   int    `json:"rating" binding:"omitempty,min=1,max=5"`
	ParentID *int64 `json:"parentId" binding:"omitempty,min=1"`
}

// CreateReviewRequest is a star review of a product
type CreateReviewRequest struct {
	UserID  int64  `json:"userId" binding:"required,min=1"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ListComments returns a page of top-level comments with replies
// GET /products/:id/comments?page=&size=&rating=
func (h *ReviewHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	size, ok := h.boundedQueryInt(c, "size", 0, MaxPageSize)
	if !ok {
		return
	}
	result, err := h.reviewService.ListComments(c.Request.Context(), id,
		queryInt(c, "page", 1), size, queryInt(c, "rating", 0))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paged(c, result)
}

// CommentStats returns the rating distribution of a product
// GET /products/:id/comments/stats
func (h *ReviewHandler) CommentStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	stats, err := h.reviewService.CommentStats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// HasCommented reports whether the caller already commented on the product
// GET /products/:id/comments/mine
func (h *ReviewHandler) HasCommented(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	commented, err := h.reviewService.HasUserCommented(c.Request.Context(), getSession(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"hasCommented": commented})
}

// CreateComment posts a comment, or a reply when parentId is set
// POST /products/:id/comments
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	comment, err := h.reviewService.CreateComment(c.Request.Context(), getSession(c), review.NewComment{
		ProductID: id,
		Content:   req.Content,
		Rating:    req.Rating,
		ParentID:  req.ParentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// ListReviews returns every review of a product
// GET /products/:id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	reviews, err := h.reviewService.ListReviews(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	h.Success(c, reviews)
}

// CreateReview posts a star review
// POST /products/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	created, err := h.reviewService.CreateReview(c.Request.Context(), getSession(c), review.NewReview{
		ProductID: id,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}
