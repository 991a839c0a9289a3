package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
)

// Record is the local copy of a gateway payment
type Record struct {
	ID            uuid.UUID
	OrderID       string
	TransactionID string
	UserID        int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Description   string
	Method        Method
	Amount        decimal.Decimal
	PaidAmount    decimal.Decimal
	Status        Status
	PaymentURL    string
	QRCode        string
	Reference     string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecord creates a pending record for a freshly created gateway payment
func NewRecord(req CreateRequest, res *CreateResult, userID int64, method Method) *Record {
	base := shared.NewBaseEntity()
	return &Record{
		ID:            base.ID,
		OrderID:       req.OrderID,
		TransactionID: res.TransactionID,
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
		Method:        method,
		Amount:        req.Amount,
		PaidAmount:    decimal.Zero,
		Status:        StatusPending,
		PaymentURL:    res.PaymentURL,
		QRCode:        res.QRCode,
		CreatedAt:     base.CreatedAt,
		UpdatedAt:     base.UpdatedAt,
	}
}

// IsFinal reports whether the record no longer changes
func (r *Record) IsFinal() bool {
	return r.Status.IsFinal()
}

// ApplyStatus moves the record to the gateway-reported state. It returns
// false when nothing changed. Final records are never moved, and a
// completion paying less than Amount is refused.
func (r *Record) ApplyStatus(s StatusResult) (bool, error) {
	if !s.Status.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
	}
	if r.IsFinal() || s.Status == r.Status {
		return false, nil
	}
	paid := s.PaidAmount
	if paid.IsZero() {
		paid = s.Amount
	}
	if s.Status == StatusCompleted && paid.LessThan(r.Amount) {
		return false, fmt.Errorf("%w: paid %s of %s", ErrUnderpaid, paid.StringFixed(2), r.Amount.StringFixed(2))
	}
	r.Status = s.Status
	if s.Status == StatusCompleted {
		r.PaidAmount = paid
		if s.PaidAt != nil {
			r.PaidAt = s.PaidAt
		} else {
			now := time.Now()
			r.PaidAt = &now
		}
	}
	if s.Method != "" {
		r.Method = Method(s.Method)
	}
	if s.Reference != "" {
		r.Reference = s.Reference
	}
	r.UpdatedAt = time.Now()
	return true, nil
}

// OwnedBy reports whether a caller may act on the record. Signed-in
// checkouts belong to their user; guest checkouts to whoever knows the
// order id.
func (r *Record) OwnedBy(userID int64, orderID string) bool {
	if r.UserID != 0 {
		return userID == r.UserID
	}
	return orderID != "" && orderID == r.OrderID
}

// Cancel marks a pending record cancelled
func (r *Record) Cancel() error {
	if r.Status != StatusPending {
		return ErrNotCancellable
	}
	r.Status = StatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// RecordRepository persists payment records
type RecordRepository interface {
	Create(ctx context.Context, r *Record) error
	Update(ctx context.Context, r *Record) error
	FindByTransactionID(ctx context.Context, transactionID string) (*Record, error)
	FindByOrderID(ctx context.Context, orderID string) (*Record, error)
}
