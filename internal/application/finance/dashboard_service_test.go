package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/finance"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransactionRepository is a mock implementation of finance.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context, filter finance.ListFilter) ([]finance.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Transaction), args.Error(1)
}

var now = time.Date(2025, 8, 13, 15, 0, 0, 0, time.UTC)

func transactions() []finance.Transaction {
	return []finance.Transaction{
		{ID: "1", UserID: 1, Amount: decimal.NewFromInt(1500), Status: finance.StatusCompleted, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", UserID: 2, Amount: decimal.NewFromInt(850), Status: finance.StatusPending, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "3", UserID: 1, Amount: decimal.NewFromInt(300), Status: finance.StatusCompleted, CreatedAt: now.AddDate(0, 0, -2)},
	}
}

func isUnfiltered(f finance.ListFilter) bool {
	return f.UserID == nil && f.From == nil && f.To == nil
}

func TestDashboardService_Dashboard(t *testing.T) {
	repo := new(MockTransactionRepository)
	// summary and the unfiltered page both load everything
	repo.On("List", mock.Anything, mock.MatchedBy(isUnfiltered)).Return(transactions(), nil).Twice()
	repo.On("List", mock.Anything, mock.MatchedBy(func(f finance.ListFilter) bool {
		return f.From != nil && f.From.Equal(time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC))
	})).Return(transactions(), nil).Once()

	svc := NewDashboardService(repo, nil).WithClock(func() time.Time { return now })
	d, err := svc.Dashboard(context.Background(), finance.TransactionQuery{}, 7)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1800).Equal(d.Summary.TotalRevenue))
	assert.Equal(t, 2, d.Summary.TotalUsers)
	require.Len(t, d.Chart, 7)
	assert.True(t, decimal.NewFromInt(1500).Equal(d.Chart[6].Revenue))
	assert.Equal(t, int64(3), d.Transactions.Total)
	assert.Equal(t, "1", d.Transactions.Items[0].ID)
	repo.AssertExpectations(t)
}

func TestDashboardService_Dashboard_Error(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	svc := NewDashboardService(repo, nil).WithClock(func() time.Time { return now })
	_, err := svc.Dashboard(context.Background(), finance.TransactionQuery{}, 0)

	assert.EqualError(t, err, "db down")
}

func TestDashboardService_TransactionHistory(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f finance.ListFilter) bool {
		return f.UserID != nil && *f.UserID == 1
	})).Return([]finance.Transaction{transactions()[0], transactions()[2]}, nil)

	svc := NewDashboardService(repo, nil).WithClock(func() time.Time { return now })
	page, err := svc.TransactionHistory(context.Background(), 1, finance.TransactionQuery{Status: "completed"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestDashboardService_TransactionHistory_InvalidUser(t *testing.T) {
	svc := NewDashboardService(new(MockTransactionRepository), nil)
	_, err := svc.TransactionHistory(context.Background(), 0, finance.TransactionQuery{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
