package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActiveUserWindow is how far back a transaction makes a user active
const ActiveUserWindow = 30 * 24 * time.Hour

// DefaultChartDays is the length of the revenue chart
const DefaultChartDays = 7

// PaymentSummary is the headline block of the finance dashboard
type PaymentSummary struct {
	TotalRevenue           decimal.Decimal `json:"totalRevenue"`
	TodayRevenue           decimal.Decimal `json:"todayRevenue"`
	MonthlyRevenue         decimal.Decimal `json:"monthlyRevenue"`
	TotalTransactions      int             `json:"totalTransactions"`
	SuccessfulTransactions int             `json:"successfulTransactions"`
	PendingTransactions    int             `json:"pendingTransactions"`
	FailedTransactions     int             `json:"failedTransactions"`
	TotalUsers             int             `json:"totalUsers"`
	ActiveUsers            int             `json:"activeUsers"`
}

// Summarize computes the dashboard summary. Revenue only counts completed
// transactions; days and months are taken in now's location.
func Summarize(txs []Transaction, now time.Time) PaymentSummary {
	s := PaymentSummary{
		TotalRevenue:   decimal.Zero,
		TodayRevenue:   decimal.Zero,
		MonthlyRevenue: decimal.Zero,
	}
	loc := now.Location()
	today := startOfDay(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	activeSince := now.Add(-ActiveUserWindow)

	users := make(map[int64]struct{})
	active := make(map[int64]struct{})

	for _, t := range txs {
		s.TotalTransactions++
		users[t.UserID] = struct{}{}
		if !t.CreatedAt.Before(activeSince) {
			active[t.UserID] = struct{}{}
		}

		switch t.Status {
		case StatusCompleted:
			s.SuccessfulTransactions++
			s.TotalRevenue = s.TotalRevenue.Add(t.Amount)
			created := t.CreatedAt.In(loc)
			if !created.Before(today) {
				s.TodayRevenue = s.TodayRevenue.Add(t.Amount)
			}
			if !created.Before(month) {
				s.MonthlyRevenue = s.MonthlyRevenue.Add(t.Amount)
			}
		case StatusPending:
			s.PendingTransactions++
		case StatusFailed:
			s.FailedTransactions++
		}
	}

	s.TotalUsers = len(users)
	s.ActiveUsers = len(active)
	return s
}

// ChartPoint is one day of the revenue chart
type ChartPoint struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// Chart returns daily completed revenue for the last days days, oldest
// first, today included. Days without transactions are present with zeros.
func Chart(txs []Transaction, days int, now time.Time) []ChartPoint {
	if days < 1 {
		days = DefaultChartDays
	}
	loc := now.Location()
	first := startOfDay(now).AddDate(0, 0, -(days - 1))

	points := make([]ChartPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		d := first.AddDate(0, 0, i).Format(time.DateOnly)
		points[i] = ChartPoint{Date: d, Revenue: decimal.Zero}
		index[d] = i
	}

	for _, t := range txs {
		if t.Status != StatusCompleted {
			continue
		}
		i, ok := index[t.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(t.Amount)
		points[i].Transactions++
	}
	return points
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
