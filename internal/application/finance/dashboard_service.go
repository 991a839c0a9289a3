package finance

import (
	"context"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/finance"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard is everything the admin finance page shows
type Dashboard struct {
	Summary      finance.PaymentSummary               `json:"summary"`
	Chart        []finance.ChartPoint                 `json:"chart"`
	Transactions shared.Paginated[finance.Transaction] `json:"transactions"`
}

// DashboardService builds the finance dashboard from stored payments
type DashboardService struct {
	repo   finance.TransactionRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo finance.TransactionRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, now: time.Now, logger: logger}
}

// WithClock overrides the clock, for tests
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Dashboard loads the summary, the chart and one page of transactions
// concurrently.
func (s *DashboardService) Dashboard(ctx context.Context, q finance.TransactionQuery, chartDays int) (*Dashboard, error) {
	now := s.now()
	if chartDays < 1 {
		chartDays = finance.DefaultChartDays
	}
	q.Normalize()

	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		all, err := s.repo.List(gctx, finance.ListFilter{})
		if err != nil {
			return err
		}
		out.Summary = finance.Summarize(all, now)
		return nil
	})

	g.Go(func() error {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(chartDays - 1))
		recent, err := s.repo.List(gctx, finance.ListFilter{From: &from})
		if err != nil {
			return err
		}
		out.Chart = finance.Chart(recent, chartDays, now)
		return nil
	})

	g.Go(func() error {
		page, err := s.page(gctx, nil, q, now)
		if err != nil {
			return err
		}
		out.Transactions = page
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("finance dashboard load failed", zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// TransactionHistory returns one user's transactions
func (s *DashboardService) TransactionHistory(ctx context.Context, userID int64, q finance.TransactionQuery) (shared.Paginated[finance.Transaction], error) {
	if userID <= 0 {
		return shared.Paginated[finance.Transaction]{}, shared.NewDomainError("INVALID_INPUT", "user id must be positive")
	}
	return s.page(ctx, &userID, q, s.now())
}

func (s *DashboardService) page(ctx context.Context, userID *int64, q finance.TransactionQuery, now time.Time) (shared.Paginated[finance.Transaction], error) {
	q.Normalize()
	from, to := q.Bounds(now)
	txs, err := s.repo.List(ctx, finance.ListFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return shared.Paginated[finance.Transaction]{}, err
	}
	return q.Apply(txs, now), nil
}
