// Package payment models payments taken through the ePay gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payment Gateway Errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidOrderID       = errors.New("payment: invalid order ID")
	ErrInvalidAmount        = errors.New("payment: invalid payment amount")
	ErrInvalidTransactionID = errors.New("payment: invalid transaction ID")
	ErrInvalidStatus        = errors.New("payment: invalid payment status")
	ErrRecordNotFound       = errors.New("payment: payment record not found")
	ErrNotCancellable       = errors.New("payment: only pending payments can be cancelled")
	ErrUnderpaid            = errors.New("payment: paid amount is below the payment amount")
	ErrNotOwner             = errors.New("payment: payment belongs to another checkout")

	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured")
	ErrGatewayUnavailable     = errors.New("payment: gateway temporarily unavailable")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
)

// Status is the gateway-side state of a payment
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is one the gateway reports
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the status is terminal
func (s Status) IsFinal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Gateway Requests/Responses
// ---------------------------------------------------------------------------

// CreateRequest asks the gateway for a hosted payment page
type CreateRequest struct {
	Amount        decimal.Decimal
	OrderID       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Description   string
	ReturnURL     string
	CancelURL     string
	WebhookURL    string
}

// Validate checks the fields the gateway requires
func (r CreateRequest) Validate() error {
	if r.OrderID == "" {
		return ErrInvalidOrderID
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// DefaultDescription is the description used when the caller gives none
func DefaultDescription(orderID string) string {
	return fmt.Sprintf("Order #%s", orderID)
}

// CreateResult is the gateway's answer to a create or QR request
type CreateResult struct {
	TransactionID string
	PaymentURL    string
	QRCode        string
	Message       string
}

// StatusResult is the gateway's view of a transaction
type StatusResult struct {
	TransactionID string
	Status        Status
	Amount        decimal.Decimal
	PaidAmount    decimal.Decimal
	PaidAt        *time.Time
	Method        string
	Reference     string
}

// Gateway is the outbound port to the ePay API
type Gateway interface {
	// CreatePayment creates a hosted payment and returns its URL
	CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error)

	// GetStatus queries a transaction
	GetStatus(ctx context.Context, transactionID string) (*StatusResult, error)

	// Cancel cancels a pending transaction on the gateway
	Cancel(ctx context.Context, transactionID string) error

	// CreateQR creates a QR code payment
	CreateQR(ctx context.Context, req CreateRequest) (*CreateResult, error)
}
