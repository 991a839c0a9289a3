// Package wallet keeps a user's wallet ledger. The balance is never stored;
// it is the sum of completed ledger entries.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount       = errors.New("wallet: withdrawal amount must be positive")
	ErrInsufficientBalance = errors.New("wallet: withdrawal exceeds available balance")
	ErrUnknownBank         = errors.New("wallet: unknown bank")
)

// Type is the kind of ledger entry
type Type string

const (
	TypeIncoming Type = "incoming"
	TypeOutgoing Type = "outgoing"
	TypeRefund   Type = "refund"
	TypeBonus    Type = "bonus"
)

// IsDebit reports whether entries of this type take money out
func (t Type) IsDebit() bool {
	return t == TypeOutgoing || t == TypeRefund
}

// Status is the settlement state of a ledger entry
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Transaction is one ledger entry. Amount is signed: debits are negative.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      int64           `json:"userId"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      Status          `json:"status"`
	Reference   string          `json:"reference"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Balance sums completed entries
func Balance(txs []Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if t.Status == StatusCompleted {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Available is the balance minus money reserved by pending withdrawals
func Available(txs []Transaction) decimal.Decimal {
	sum := Balance(txs)
	for _, t := range txs {
		if t.Status == StatusPending && t.Type == TypeOutgoing {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Totals returns completed money in and money out, both non-negative
func Totals(txs []Transaction) (in, out decimal.Decimal) {
	in, out = decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Status != StatusCompleted {
			continue
		}
		if t.Type.IsDebit() {
			out = out.Add(t.Amount.Abs())
		} else {
			in = in.Add(t.Amount)
		}
	}
	return in, out
}

// Kind selects ledger entries for the history tabs
type Kind string

const (
	KindAll      Kind = "all"
	KindIncoming Kind = "incoming"
	KindOutgoing Kind = "outgoing"
)

// Filter keeps entries of the given kind. Bonuses count as incoming and
// refunds as outgoing.
func Filter(txs []Transaction, kind Kind) []Transaction {
	if kind == KindAll || kind == "" {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if (kind == KindOutgoing) == t.Type.IsDebit() {
			out = append(out, t)
		}
	}
	return out
}

// Summary is the header of the wallet page
type Summary struct {
	Balance       decimal.Decimal `json:"balance"`
	Available     decimal.Decimal `json:"available"`
	TotalIncoming decimal.Decimal `json:"totalIncoming"`
	TotalOutgoing decimal.Decimal `json:"totalOutgoing"`
}

// Summarize computes the wallet header for a ledger
func Summarize(txs []Transaction) Summary {
	in, out := Totals(txs)
	return Summary{
		Balance:       Balance(txs),
		Available:     Available(txs),
		TotalIncoming: in,
		TotalOutgoing: out,
	}
}

// Repository stores ledger entries
type Repository interface {
	// List returns the user's entries, newest first
	List(ctx context.Context, userID int64) ([]Transaction, error)

	// Append runs build against the user's current ledger and stores the
	// entry it returns. The read and the write are atomic per user.
	Append(ctx context.Context, userID int64, build func(ledger []Transaction) (*Transaction, error)) (*Transaction, error)
}
