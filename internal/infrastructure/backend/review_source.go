package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/review"
)

const (
	commentsPath       = "/api/comments/product/%d"
	commentsByRatePath = "/api/comments/product/%d/rating/%d"
	commentStatsPath   = "/api/comments/product/%d/stats"
	userCommentedPath  = "/api/comments/product/%d/user-commented"
	commentRepliesPath = "/api/comments/%d/replies"
	commentReplyPath   = "/api/comments/%d/reply"
	productReviewsPath = "/api/reviews/product/%d"
	reviewsPath        = "/api/reviews"
)

// ReviewSource reads and posts comments and reviews
type ReviewSource struct {
	client *Client
}

// NewReviewSource creates a review.Source backed by the store backend
func NewReviewSource(client *Client) *ReviewSource {
	return &ReviewSource{client: client}
}

var _ review.Source = (*ReviewSource)(nil)

// Comments returns one zero-based page of top-level comments
func (s *ReviewSource) Comments(ctx context.Context, productID int64, page, size int) ([]review.Comment, int, int64, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out commentPageDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(commentsPath, productID)+"?"+q.Encode(), "", nil, &out); err != nil {
		return nil, 0, 0, err
	}
	return commentsToDomain(out.Content), out.TotalPages, out.TotalElements, nil
}

func (s *ReviewSource) CommentsByRating(ctx context.Context, productID int64, rating int) ([]review.Comment, error) {
	var out []commentDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(commentsByRatePath, productID, rating), "", nil, &out); err != nil {
		return nil, err
	}
	return commentsToDomain(out), nil
}

func (s *ReviewSource) Replies(ctx context.Context, commentID int64) ([]review.Comment, error) {
	var out []commentDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(commentRepliesPath, commentID), "", nil, &out); err != nil {
		return nil, err
	}
	return commentsToDomain(out), nil
}

func (s *ReviewSource) CommentStats(ctx context.Context, productID int64) (*review.CommentStats, error) {
	var out commentStatsDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(commentStatsPath, productID), "", nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (s *ReviewSource) HasUserCommented(ctx context.Context, session string, productID int64) (bool, error) {
	var out struct {
		HasCommented bool `json:"hasCommented"`
	}
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(userCommentedPath, productID), session, nil, &out); err != nil {
		return false, err
	}
	return out.HasCommented, nil
}

// CreateComment posts a top-level comment, or a reply when ParentID is set
func (s *ReviewSource) CreateComment(ctx context.Context, session string, in review.NewComment) (*review.Comment, error) {
	var (
		path string
		body any
	)
	if in.ParentID != nil {
		path = fmt.Sprintf(commentReplyPath, *in.ParentID)
		body = newReplyDTO{Content: in.Content}
	} else {
		path = fmt.Sprintf(commentsPath, in.ProductID)
		dto := newCommentDTO{Content: in.Content}
		if in.Rating != 0 {
			rating := in.Rating
			dto.Rating = &rating
		}
		body = dto
	}

	var out commentDTO
	if err := s.client.do(ctx, http.MethodPost, path, session, body, &out); err != nil {
		return nil, err
	}
	c := out.toDomain()
	if c.ProductID == 0 {
		c.ProductID = in.ProductID
	}
	if c.ParentID == nil && in.ParentID != nil {
		parent := *in.ParentID
		c.ParentID = &parent
	}
	return &c, nil
}

func (s *ReviewSource) Reviews(ctx context.Context, productID int64) ([]review.Review, error) {
	var out []reviewDTO
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf(productReviewsPath, productID), "", nil, &out); err != nil {
		return nil, err
	}
	reviews := make([]review.Review, 0, len(out))
	for _, r := range out {
		reviews = append(reviews, r.toDomain())
	}
	return reviews, nil
}

func (s *ReviewSource) CreateReview(ctx context.Context, session string, in review.NewReview) (*review.Review, error) {
	body := newReviewDTO{
		Product: in.ProductID,
		User:    in.UserID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	var out reviewDTO
	if err := s.client.do(ctx, http.MethodPost, reviewsPath, session, body, &out); err != nil {
		return nil, err
	}
	r := out.toDomain()
	return &r, nil
}
