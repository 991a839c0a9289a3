// Package finance holds the admin view of money flowing through the store:
// payment transactions, revenue summaries and the daily revenue chart.
package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FeeRate is the gateway fee charged on every payment
var FeeRate = decimal.RequireFromString("0.03")

// Fee returns the gateway fee for amount, rounded to satang
func Fee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(FeeRate).Round(2)
}

// TransactionStatus is the admin-facing state of a payment
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusFailed    TransactionStatus = "failed"
	StatusRefunded  TransactionStatus = "refunded"
)

// IsValid returns true for a known status
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// Transaction is one payment as shown on the finance dashboard
type Transaction struct {
	ID          string            `json:"id"`
	UserID      int64             `json:"userId"`
	UserName    string            `json:"userName"`
	UserEmail   string            `json:"userEmail"`
	Amount      decimal.Decimal   `json:"amount"`
	Fee         decimal.Decimal   `json:"fee"`
	NetAmount   decimal.Decimal   `json:"netAmount"`
	Method      string            `json:"method"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"createdAt"`
	OrderID     string            `json:"orderId,omitempty"`
	Reference   string            `json:"reference"`
}

// WithFee fills Fee and NetAmount from Amount
func (t Transaction) WithFee() Transaction {
	t.Fee = Fee(t.Amount)
	t.NetAmount = t.Amount.Sub(t.Fee)
	return t
}

// ListFilter narrows what the repository loads
type ListFilter struct {
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// TransactionRepository loads payment transactions
type TransactionRepository interface {
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)
}
