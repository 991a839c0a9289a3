package review

import (
	"context"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/review"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// replyFetchConcurrency caps parallel reply loads per comment page
const replyFetchConcurrency = 4

// ReviewService serves product comments and reviews
type ReviewService struct {
	source review.Source
	logger *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(source review.Source, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{source: source, logger: logger}
}

// ListComments returns a one-based page of comments with their replies. A
// non-zero rating keeps only comments with that many stars.
func (s *ReviewService) ListComments(ctx context.Context, productID int64, page, size, rating int) (shared.Paginated[review.Comment], error) {
	if productID <= 0 {
		return shared.Paginated[review.Comment]{}, shared.NewDomainError("INVALID_INPUT", "product id must be positive")
	}
	if rating != 0 {
		if err := review.ValidateRating(rating); err != nil {
			return shared.Paginated[review.Comment]{}, err
		}
	}
	if size <= 0 {
		size = review.DefaultCommentPageSize
	}
	if page < 1 {
		page = 1
	}

	var result shared.Paginated[review.Comment]
	if rating == 0 {
		comments, _, total, err := s.source.Comments(ctx, productID, page-1, size)
		if err != nil {
			return result, err
		}
		result = shared.NewPaginated(comments, total, page, size)
	} else {
		all, err := s.source.CommentsByRating(ctx, productID, rating)
		if err != nil {
			return result, err
		}
		page = pagination.ClampPage(page, pagination.TotalPages(len(all), size))
		result = shared.NewPaginated(pagination.Slice(all, page, size), int64(len(all)), page, size)
	}

	s.attachReplies(ctx, result.Items)
	return result, nil
}

// attachReplies loads replies in place. A failed load leaves the comment
// without replies.
func (s *ReviewService) attachReplies(ctx context.Context, comments []review.Comment) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(replyFetchConcurrency)
	for i := range comments {
		c := &comments[i]
		if len(c.Replies) > 0 {
			continue
		}
		g.Go(func() error {
			replies, err := s.source.Replies(gctx, c.ID)
			if err != nil {
				s.logger.Warn("failed to load comment replies", zap.Int64("comment_id", c.ID), zap.Error(err))
				return nil
			}
			c.Replies = replies
			return nil
		})
	}
	_ = g.Wait()
}

// CommentStats returns the rating breakdown of a product
func (s *ReviewService) CommentStats(ctx context.Context, productID int64) (*review.CommentStats, error) {
	stats, err := s.source.CommentStats(ctx, productID)
	if err != nil {
		return nil, err
	}
	stats.Normalize()
	return stats, nil
}

// HasUserCommented reports whether the session's user already left a
// comment. Anonymous visitors never have.
func (s *ReviewService) HasUserCommented(ctx context.Context, session string, productID int64) (bool, error) {
	if session == "" {
		return false, nil
	}
	return s.source.HasUserCommented(ctx, session, productID)
}

// CreateComment validates and posts a comment or a reply
func (s *ReviewService) CreateComment(ctx context.Context, session string, in review.NewComment) (*review.Comment, error) {
	if session == "" {
		return nil, shared.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.source.CreateComment(ctx, session, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("comment created",
		zap.Int64("product_id", in.ProductID),
		zap.Int64("comment_id", c.ID),
		zap.Bool("reply", in.ParentID != nil))
	return c, nil
}

// ListReviews returns every review of a product
func (s *ReviewService) ListReviews(ctx context.Context, productID int64) ([]review.Review, error) {
	if productID <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "product id must be positive")
	}
	return s.source.Reviews(ctx, productID)
}

// CreateReview validates and posts a review
func (s *ReviewService) CreateReview(ctx context.Context, session string, in review.NewReview) (*review.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.source.CreateReview(ctx, session, in)
}
