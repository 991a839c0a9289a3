package review

import "context"

// Source is the backend API for comments and reviews. session is the
// caller's cookie header, passed through unchanged.
type Source interface {
	// Comments returns one zero-based page of top-level comments with the
	// total page and element counts
	Comments(ctx context.Context, productID int64, page, size int) ([]Comment, int, int64, error)

	// CommentsByRating returns every top-level comment with the given rating
	CommentsByRating(ctx context.Context, productID int64, rating int) ([]Comment, error)

	// Replies returns the replies to a comment
	Replies(ctx context.Context, commentID int64) ([]Comment, error)

	CommentStats(ctx context.Context, productID int64) (*CommentStats, error)
	HasUserCommented(ctx context.Context, session string, productID int64) (bool, error)
	CreateComment(ctx context.Context, session string, in NewComment) (*Comment, error)
	Reviews(ctx context.Context, productID int64) ([]Review, error)
	CreateReview(ctx context.Context, session string, in NewReview) (*Review, error)
}
