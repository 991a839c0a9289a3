package finance

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
)

// DefaultPageSize is the number of transactions per dashboard page
const DefaultPageSize = 20

// DateRange is a preset period relative to now
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

// TransactionQuery filters, sorts and pages the transaction list
type TransactionQuery struct {
	Status   string     `form:"status"`
	Search   string     `form:"search"`
	Range    DateRange  `form:"range"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	SortBy   string     `form:"sort_by" binding:"omitempty,oneof=date amount status"`
	SortDir  string     `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills defaults
func (q *TransactionQuery) Normalize() {
	if q.Status == "" {
		q.Status = "all"
	}
	if q.Range == "" {
		q.Range = RangeAll
	}
	if q.SortBy == "" {
		q.SortBy = "date"
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
}

// Bounds resolves Range and the explicit dates into an inclusive-exclusive
// interval. Explicit dates narrow the preset; DateTo covers its whole day.
func (q TransactionQuery) Bounds(now time.Time) (from, to *time.Time) {
	today := startOfDay(now)
	var start time.Time
	switch q.Range {
	case RangeToday:
		start = today
	case RangeWeek:
		start = today.AddDate(0, 0, -6)
	case RangeMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if !start.IsZero() {
		from = &start
	}
	if q.DateFrom != nil && (from == nil || q.DateFrom.After(*from)) {
		f := *q.DateFrom
		from = &f
	}
	if q.DateTo != nil {
		end := startOfDay(*q.DateTo).AddDate(0, 0, 1)
		to = &end
	}
	return from, to
}

func (q TransactionQuery) matches(t Transaction, from, to *time.Time) bool {
	if q.Status != "all" && string(t.Status) != q.Status {
		return false
	}
	if from != nil && t.CreatedAt.Before(*from) {
		return false
	}
	if to != nil && !t.CreatedAt.Before(*to) {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(q.Search))
	if s == "" {
		return true
	}
	for _, field := range []string{t.Reference, t.Description, t.OrderID, t.UserName, t.UserEmail} {
		if strings.Contains(strings.ToLower(field), s) {
			return true
		}
	}
	return false
}

func (q TransactionQuery) compare(a, b Transaction) int {
	var c int
	switch q.SortBy {
	case "amount":
		c = a.Amount.Cmp(b.Amount)
	case "status":
		c = cmp.Compare(a.Status, b.Status)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	if q.SortDir == "desc" {
		return -c
	}
	return c
}

// Apply filters, sorts and pages txs. The input slice is not modified.
func (q TransactionQuery) Apply(txs []Transaction, now time.Time) shared.Paginated[Transaction] {
	q.Normalize()
	from, to := q.Bounds(now)

	filtered := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if q.matches(t, from, to) {
			filtered = append(filtered, t)
		}
	}
	slices.SortStableFunc(filtered, q.compare)

	page := pagination.ClampPage(q.Page, pagination.TotalPages(len(filtered), q.PageSize))
	items := pagination.Slice(filtered, page, q.PageSize)
	return shared.NewPaginated(items, int64(len(filtered)), page, q.PageSize)
}
