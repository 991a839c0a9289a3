package payment

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ePay API request/response types

type epayCreateRequest struct {
	Amount        json.Number `json:"amount"`
	OrderID       string      `json:"order_id"`
	CustomerName  string      `json:"customer_name,omitempty"`
	CustomerEmail string      `json:"customer_email,omitempty"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Description   string      `json:"description"`
	ReturnURL     string      `json:"return_url,omitempty"`
	CancelURL     string      `json:"cancel_url,omitempty"`
	WebhookURL    string      `json:"webhook_url,omitempty"`
}

type epayQRRequest struct {
	Amount      json.Number `json:"amount"`
	OrderID     string      `json:"order_id"`
	Description string      `json:"description"`
	PaymentType string      `json:"payment_type"`
}

type epayCreateResponse struct {
	Success       bool   `json:"success"`
	PaymentURL    string `json:"payment_url"`
	TransactionID string `json:"transaction_id"`
	QRCode        string `json:"qr_code"`
	Message       string `json:"message"`
}

type epayStatusResponse struct {
	Success       bool                `json:"success"`
	Status        string              `json:"status"`
	TransactionID string              `json:"transaction_id"`
	Amount        decimal.NullDecimal `json:"amount"`
	PaidAmount    decimal.NullDecimal `json:"paid_amount"`
	PaidAt        string              `json:"paid_at"`
	PaymentMethod string              `json:"payment_method"`
	Reference     string              `json:"reference"`
	Message       string              `json:"message"`
}

type epayBasicResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
