package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCheckoutInProgress is returned when a checkout for the same order is
// still running or its record was never stored
var ErrCheckoutInProgress = shared.NewDomainError("CHECKOUT_IN_PROGRESS", "A checkout for this order is already in progress")

// Metrics receives payment business events
type Metrics interface {
	RecordCheckout(ctx context.Context, method string, ok bool)
	RecordPayment(ctx context.Context, method string, status string)
}

type nopMetrics struct{}

func (nopMetrics) RecordCheckout(context.Context, string, bool)     {}
func (nopMetrics) RecordPayment(context.Context, string, string) {}

// Config holds payment flow settings
type Config struct {
	// PublicBaseURL is where the storefront is served; return and cancel
	// URLs default to pages under it
	PublicBaseURL string
	// WebhookURL is passed to the gateway for status callbacks
	WebhookURL string
	// IdempotencyTTL bounds how long checkout and webhook keys are kept
	IdempotencyTTL time.Duration
}

// PaymentServiceConfig wires a PaymentService
type PaymentServiceConfig struct {
	Gateway     payment.Gateway
	Records     payment.RecordRepository
	Idempotency shared.IdempotencyStore
	Metrics     Metrics
	Logger      *zap.Logger
	Config      Config
}

// PaymentService runs checkout, verification, cancellation and webhooks
type PaymentService struct {
	gateway     payment.Gateway
	records     payment.RecordRepository
	idempotency shared.IdempotencyStore
	metrics     Metrics
	logger      *zap.Logger
	cfg         Config
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(c PaymentServiceConfig) *PaymentService {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Metrics == nil {
		c.Metrics = nopMetrics{}
	}
	if c.Config.IdempotencyTTL <= 0 {
		c.Config.IdempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &PaymentService{
		gateway:     c.Gateway,
		records:     c.Records,
		idempotency: c.Idempotency,
		metrics:     c.Metrics,
		logger:      c.Logger,
		cfg:         c.Config,
	}
}

// CheckoutRequest is an order ready to be paid
type CheckoutRequest struct {
	OrderID       string          `json:"order_id" binding:"required,max=64"`
	Amount        decimal.Decimal `json:"amount"`
	UserID        int64           `json:"-"`
	CustomerName  string          `json:"customer_name" binding:"omitempty,max=200"`
	CustomerEmail string          `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone string          `json:"customer_phone" binding:"omitempty,max=20"`
	Description   string          `json:"description" binding:"omitempty,max=500"`
	ReturnURL     string          `json:"return_url" binding:"omitempty,url"`
	CancelURL     string          `json:"cancel_url" binding:"omitempty,url"`
	Method        payment.Method  `json:"method"`
}

// CheckoutResult is the record for the order and whether it already existed
type CheckoutResult struct {
	Record    *payment.Record
	Duplicate bool
}

func (s *PaymentService) createRequest(req CheckoutRequest) payment.CreateRequest {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	cr := payment.CreateRequest{
		Amount:        req.Amount,
		OrderID:       strings.TrimSpace(req.OrderID),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
		ReturnURL:     req.ReturnURL,
		CancelURL:     req.CancelURL,
		WebhookURL:    s.cfg.WebhookURL,
	}
	if cr.Description == "" {
		cr.Description = payment.DefaultDescription(cr.OrderID)
	}
	if cr.ReturnURL == "" {
		cr.ReturnURL = base + "/payment/success"
	}
	if cr.CancelURL == "" {
		cr.CancelURL = base + "/payment/cancel"
	}
	return cr
}

func checkoutKey(orderID string) string {
	return "payment:checkout:" + orderID
}

func webhookKey(transactionID string, status payment.Status) string {
	return fmt.Sprintf("payment:webhook:%s:%s", transactionID, status)
}

// Checkout creates a gateway payment for an order. Repeated calls for the
// same order return the stored record instead of a second payment.
func (s *PaymentService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "checkout",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, req.OrderID),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentMethod, string(req.Method)),
	)
	defer span.End()

	res, err := s.checkout(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if res.Duplicate {
		telemetry.AddEvent(span, "duplicate_checkout")
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrTransactionID, res.Record.TransactionID)
	telemetry.SetOK(span)
	return res, nil
}

func (s *PaymentService) checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	cr := s.createRequest(req)
	if err := cr.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	method := req.Method
	if method == "" {
		method = payment.MethodPromptPay
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unsupported payment method %q", method))
	}

	key := checkoutKey(cr.OrderID)
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.cfg.IdempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("checkout idempotency check: %w", err)
	}
	if !fresh {
		existing, err := s.records.FindByOrderID(ctx, cr.OrderID)
		if err != nil {
			if errors.Is(err, payment.ErrRecordNotFound) {
				return nil, ErrCheckoutInProgress
			}
			return nil, err
		}
		s.logger.Info("duplicate checkout, returning existing payment",
			zap.String("order_id", cr.OrderID),
			zap.String("transaction_id", existing.TransactionID))
		return &CheckoutResult{Record: existing, Duplicate: true}, nil
	}

	var res *payment.CreateResult
	if method == payment.MethodPromptPay {
		res, err = s.gateway.CreateQR(ctx, cr)
	} else {
		res, err = s.gateway.CreatePayment(ctx, cr)
	}
	if err != nil {
		s.release(ctx, key)
		s.metrics.RecordCheckout(ctx, string(method), false)
		return nil, err
	}

	record := payment.NewRecord(cr, res, req.UserID, method)
	if err := s.records.Create(ctx, record); err != nil {
		s.release(ctx, key)
		s.logger.Error("payment created on gateway but not stored",
			zap.String("order_id", cr.OrderID),
			zap.String("transaction_id", res.TransactionID),
			zap.Error(err))
		return nil, err
	}

	s.metrics.RecordCheckout(ctx, string(method), true)
	s.logger.Info("checkout created",
		zap.String("order_id", cr.OrderID),
		zap.String("transaction_id", record.TransactionID),
		zap.String("amount", cr.Amount.StringFixed(2)),
		zap.String("method", string(method)))
	return &CheckoutResult{Record: record}, nil
}

// Verify refreshes a payment from the gateway. Final records are returned
// as stored.
func (s *PaymentService) Verify(ctx context.Context, transactionID string) (*payment.Record, error) {
	if transactionID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", payment.ErrInvalidTransactionID.Error())
	}
	record, err := s.records.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if record.IsFinal() {
		return record, nil
	}

	status, err := s.gateway.GetStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, record, *status); err != nil {
		return nil, err
	}
	return record, nil
}

// CancelRequest identifies who asks to cancel a payment
type CancelRequest struct {
	UserID  int64  `json:"-"`
	OrderID string `json:"order_id" binding:"omitempty,max=64"`
}

// Cancel cancels a pending payment on the gateway and locally. Only the
// checkout's owner may cancel: its user when signed in, otherwise whoever
// presents the order id.
func (s *PaymentService) Cancel(ctx context.Context, transactionID string, req CancelRequest) (*payment.Record, error) {
	record, err := s.records.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !record.OwnedBy(req.UserID, strings.TrimSpace(req.OrderID)) {
		s.logger.Warn("cancel refused for foreign payment",
			zap.String("transaction_id", transactionID),
			zap.Int64("user_id", req.UserID))
		return nil, shared.NewDomainError("FORBIDDEN", payment.ErrNotOwner.Error())
	}
	if record.Status != payment.StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", payment.ErrNotCancellable.Error())
	}
	if err := s.gateway.Cancel(ctx, transactionID); err != nil {
		return nil, err
	}
	if err := record.Cancel(); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	s.metrics.RecordPayment(ctx, string(record.Method), string(record.Status))
	return record, nil
}

// WebhookPayload is a status notification pushed by the gateway. Only the
// transaction id is trusted; the state applied is always re-read from the
// gateway.
type WebhookPayload struct {
	TransactionID string          `json:"transaction_id" binding:"required"`
	Status        payment.Status  `json:"status" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaidAt        *time.Time      `json:"paid_at"`
	Method        string          `json:"payment_method"`
	Reference     string          `json:"reference"`
}

// HandleWebhook refreshes the notified payment from the gateway. A delivery
// for a final record, or one seen before for the same transaction and
// gateway status, is acknowledged without changes.
func (s *PaymentService) HandleWebhook(ctx context.Context, p WebhookPayload) (*payment.Record, bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "webhook",
		telemetry.WithAttribute(telemetry.SpanAttrTransactionID, p.TransactionID),
		telemetry.WithAttribute("payment_status", string(p.Status)),
	)
	defer span.End()

	record, duplicate, err := s.handleWebhook(ctx, p)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}
	if duplicate {
		telemetry.AddEvent(span, "duplicate_webhook")
	}
	telemetry.SetOK(span)
	return record, duplicate, nil
}

func (s *PaymentService) handleWebhook(ctx context.Context, p WebhookPayload) (*payment.Record, bool, error) {
	if !p.Status.IsValid() {
		return nil, false, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown payment status %q", p.Status))
	}
	record, err := s.records.FindByTransactionID(ctx, p.TransactionID)
	if err != nil {
		return nil, false, err
	}
	if record.IsFinal() {
		return nil, true, nil
	}

	status, err := s.gateway.GetStatus(ctx, p.TransactionID)
	if err != nil {
		return nil, false, err
	}
	if status.Status != p.Status {
		s.logger.Warn("webhook status differs from gateway, applying gateway status",
			zap.String("transaction_id", p.TransactionID),
			zap.String("claimed", string(p.Status)),
			zap.String("gateway", string(status.Status)))
	}

	key := webhookKey(p.TransactionID, status.Status)
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.cfg.IdempotencyTTL)
	if err != nil {
		return nil, false, fmt.Errorf("webhook idempotency check: %w", err)
	}
	if !fresh {
		s.logger.Debug("duplicate webhook ignored",
			zap.String("transaction_id", p.TransactionID),
			zap.String("status", string(status.Status)))
		return nil, true, nil
	}

	if err := s.apply(ctx, record, *status); err != nil {
		s.release(ctx, key)
		return nil, false, err
	}
	return record, false, nil
}

// PaymentMethods lists the methods offered at checkout
func (s *PaymentService) PaymentMethods() []payment.MethodInfo {
	return payment.Methods()
}

func (s *PaymentService) apply(ctx context.Context, record *payment.Record, status payment.StatusResult) error {
	previous := record.Status
	changed, err := record.ApplyStatus(status)
	if errors.Is(err, payment.ErrUnderpaid) {
		s.logger.Warn("completion refused", zap.String("transaction_id", record.TransactionID), zap.Error(err))
		return shared.NewDomainError("INVALID_STATE", err.Error())
	}
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if !changed {
		return nil
	}
	if err := s.records.Update(ctx, record); err != nil {
		return err
	}
	s.metrics.RecordPayment(ctx, string(record.Method), string(record.Status))
	s.logger.Info("payment status changed",
		zap.String("transaction_id", record.TransactionID),
		zap.String("from", string(previous)),
		zap.String("to", string(record.Status)))
	return nil
}

func (s *PaymentService) release(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}
