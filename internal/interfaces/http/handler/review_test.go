package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	reviewapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/review"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/review"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/dto"
)

func reviewRouter(src *MockReviewSource) http.Handler {
	h := NewReviewHandler(reviewapp.NewReviewService(src, nil))
	r := newRouter()
	r.GET("/products/:id/comments", h.ListComments)
	r.GET("/products/:id/comments/stats", h.CommentStats)
	r.GET("/products/:id/comments/mine", h.HasCommented)
	r.POST("/products/:id/comments", h.CreateComment)
	r.GET("/products/:id/reviews", h.ListReviews)
	r.POST("/products/:id/reviews", h.CreateReview)
	return r
}

func TestReviewHandler_ListComments(t *testing.T) {
	src := new(MockReviewSource)
	src.On("Comments", mock.Anything, int64(9), 1, 2).Return([]review.Comment{
		{ID: 11, ProductID: 9, Content: "Great", Rating: 5},
		{ID: 12, ProductID: 9, Content: "Okay", Rating: 3},
	}, 3, int64(5), nil)
	src.On("Replies", mock.Anything, int64(11)).Return([]review.Comment{{ID: 20, Content: "Thanks"}}, nil)
	src.On("Replies", mock.Anything, int64(12)).Return(nil, nil)

	w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/comments?page=2&size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []review.Comment
	resp := decode(t, w, &got)
	require.Len(t, got, 2)
	require.Len(t, got[0].Replies, 1)
	assert.Equal(t, "Thanks", got[0].Replies[0].Content)
	assert.Empty(t, got[1].Replies)

	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(5), resp.Meta.Total)
	src.AssertExpectations(t)
}

func TestReviewHandler_ListComments_ByRating(t *testing.T) {
	comments := make([]review.Comment, 12)
	for i := range comments {
		comments[i] = review.Comment{ID: int64(i + 1), Rating: 4, Replies: []review.Comment{{ID: 100}}}
	}
	src := new(MockReviewSource)
	src.On("CommentsByRating", mock.Anything, int64(9), 4).Return(comments, nil)

	w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/comments?rating=4&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []review.Comment
	resp := decode(t, w, &got)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	src.AssertNotCalled(t, "Replies", mock.Anything, mock.Anything)
}

func TestReviewHandler_ListComments_BadRating(t *testing.T) {
	src := new(MockReviewSource)

	w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/comments?rating=6", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w, nil).Error.Code)
	src.AssertNotCalled(t, "CommentsByRating", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandler_CommentStats(t *testing.T) {
	src := new(MockReviewSource)
	src.On("CommentStats", mock.Anything, int64(9)).Return(&review.CommentStats{
		TotalComments: 4,
		RatingCounts:  [5]int64{0, 0, 0, 2, 2},
	}, nil)

	w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/comments/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got review.CommentStats
	decode(t, w, &got)
	assert.InDelta(t, 4.5, got.AverageRating, 0.001)
	assert.InDelta(t, 50.0, got.RatingPercentages[4], 0.001)
}

func TestReviewHandler_HasCommented(t *testing.T) {
	t.Run("anonymous visitor", func(t *testing.T) {
		src := new(MockReviewSource)

		w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/comments/mine", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]bool
		decode(t, w, &got)
		assert.False(t, got["hasCommented"])
		src.AssertNotCalled(t, "HasUserCommented", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("session forwarded", func(t *testing.T) {
		src := new(MockReviewSource)
		src.On("HasUserCommented", mock.Anything, testSession, int64(9)).Return(true, nil)

		w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/comments/mine", nil, SessionHeader, testSession)
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]bool
		decode(t, w, &got)
		assert.True(t, got["hasCommented"])
	})
}

func TestReviewHandler_CreateComment(t *testing.T) {
	parent := int64(11)
	src := new(MockReviewSource)
	src.On("CreateComment", mock.Anything, testSession, review.NewComment{
		ProductID: 9,
		Content:   "Agreed",
		ParentID:  &parent,
	}).Return(&review.Comment{ID: 30, ProductID: 9, Content: "Agreed", ParentID: &parent, CreatedAt: time.Now()}, nil)

	w := doRequest(reviewRouter(src), http.MethodPost, "/products/9/comments",
		map[string]any{"content": "  Agreed  ", "parentId": 11}, SessionHeader, testSession)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got review.Comment
	decode(t, w, &got)
	assert.Equal(t, int64(30), got.ID)
	assert.True(t, got.IsReply())
	src.AssertExpectations(t)
}

func TestReviewHandler_CreateComment_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		session  string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing content",
			body:     map[string]any{"rating": 4},
			session:  testSession,
			wantCode: http.StatusBadRequest,
			wantErr:  dto.ErrCodeValidation,
		},
		{
			name:     "rating out of range",
			body:     map[string]any{"content": "hi", "rating": 9},
			session:  testSession,
			wantCode: http.StatusBadRequest,
			wantErr:  dto.ErrCodeValidation,
		},
		{
			name:     "top-level comment without rating",
			body:     map[string]any{"content": "hi"},
			session:  testSession,
			wantCode: http.StatusBadRequest,
			wantErr:  dto.ErrCodeInvalidInput,
		},
		{
			name:     "no session",
			body:     map[string]any{"content": "hi", "rating": 4},
			wantCode: http.StatusUnauthorized,
			wantErr:  dto.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(MockReviewSource)
			var headers []string
			if tt.session != "" {
				headers = []string{SessionHeader, tt.session}
			}

			w := doRequest(reviewRouter(src), http.MethodPost, "/products/9/comments", tt.body, headers...)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w, nil).Error.Code)
			src.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReviewHandler_ListReviews(t *testing.T) {
	src := new(MockReviewSource)
	src.On("Reviews", mock.Anything, int64(9)).Return(nil, nil)

	w := doRequest(reviewRouter(src), http.MethodGet, "/products/9/reviews", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestReviewHandler_CreateReview(t *testing.T) {
	src := new(MockReviewSource)
	src.On("CreateReview", mock.Anything, testSession, review.NewReview{
		ProductID: 9,
		UserID:    42,
		Rating:    5,
		Comment:   "Lovely",
	}).Return(&review.Review{ID: 1, ProductID: 9, UserID: 42, Rating: 5, Comment: "Lovely"}, nil)

	w := doRequest(reviewRouter(src), http.MethodPost, "/products/9/reviews",
		map[string]any{"userId": 42, "rating": 5, "comment": "Lovely"}, SessionHeader, testSession)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	src.AssertExpectations(t)
}

func TestReviewHandler_CreateReview_BackendNotFound(t *testing.T) {
	src := new(MockReviewSource)
	src.On("CreateReview", mock.Anything, "", mock.Anything).Return(nil, shared.ErrNotFound)

	w := doRequest(reviewRouter(src), http.MethodPost, "/products/9/reviews",
		map[string]any{"userId": 42, "rating": 3})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
