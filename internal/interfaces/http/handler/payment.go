package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	paymentapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
)

// PaymentHandler serves checkout, payment status and gateway webhooks
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentResponse is the client view of a payment record
type PaymentResponse struct {
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	Method        payment.Method  `json:"method"`
	Status        payment.Status  `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentURL    string          `json:"payment_url,omitempty"`
	QRCode        string          `json:"qr_code,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CheckoutResponse is a payment plus whether it was created by an earlier call
type CheckoutResponse struct {
	PaymentResponse
	Duplicate bool `json:"duplicate"`
}

func toPaymentResponse(r *payment.Record) PaymentResponse {
	return PaymentResponse{
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
		Method:        r.Method,
		Status:        r.Status,
		Amount:        r.Amount,
		PaidAmount:    r.PaidAmount,
		PaymentURL:    r.PaymentURL,
		QRCode:        r.QRCode,
		Reference:     r.Reference,
		PaidAt:        r.PaidAt,
		CreatedAt:     r.CreatedAt,
	}
}

// Methods lists the payment methods offered at checkout
// GET /payments/methods
func (h *PaymentHandler) Methods(c *gin.Context) {
	h.Success(c, h.paymentService.PaymentMethods())
}

// Checkout creates the gateway payment for an order. Repeating the call for
// the same order returns the existing payment with 200 instead of 201.
// POST /payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req paymentapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	userID, err := optionalUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.UserID = userID

	res, err := h.paymentService.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	body := CheckoutResponse{PaymentResponse: toPaymentResponse(res.Record), Duplicate: res.Duplicate}
	if res.Duplicate {
		h.Success(c, body)
		return
	}
	h.Created(c, body)
}

// Verify refreshes a payment from the gateway
// GET /payments/:transaction_id
func (h *PaymentHandler) Verify(c *gin.Context) {
	record, err := h.paymentService.Verify(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPaymentResponse(record))
}

// Cancel cancels a pending payment. Signed-in checkouts are cancelled by
// their user; guest checkouts need the order id in the body.
// POST /payments/:transaction_id/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req paymentapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.ValidationError(c, err)
		return
	}
	userID, err := optionalUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.UserID = userID

	record, err := h.paymentService.Cancel(c.Request.Context(), c.Param("transaction_id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPaymentResponse(record))
}

// Webhook refreshes the notified payment from the gateway. Repeated
// deliveries are acknowledged without changes.
// POST /payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req paymentapp.WebhookPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	record, duplicate, err := h.paymentService.HandleWebhook(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := gin.H{"received": true, "duplicate": duplicate}
	if record != nil {
		resp["payment"] = toPaymentResponse(record)
	}
	h.Success(c, resp)
}
