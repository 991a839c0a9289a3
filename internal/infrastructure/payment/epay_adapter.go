package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/telemetry"
)

const (
	epayCreatePath = "/api/payment/create"
	epayStatusPath = "/api/payment/status/%s"
	epayCancelPath = "/api/payment/cancel/%s"
	epayQRPath     = "/api/payment/qr"
)

// EPayAdapter implements payment.Gateway for ePay
type EPayAdapter struct {
	config     *EPayConfig
	httpClient *http.Client
}

// NewEPayAdapter creates a new ePay adapter
func NewEPayAdapter(config *EPayConfig) (*EPayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &EPayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreatePayment creates a hosted payment page
func (a *EPayAdapter) CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.CreateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	description := req.Description
	if description == "" {
		description = payment.DefaultDescription(req.OrderID)
	}

	body, err := json.Marshal(epayCreateRequest{
		Amount:        json.Number(req.Amount.String()),
		OrderID:       req.OrderID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Description:   description,
		ReturnURL:     req.ReturnURL,
		CancelURL:     req.CancelURL,
		WebhookURL:    req.WebhookURL,
	})
	if err != nil {
		return nil, fmt.Errorf("epay: failed to marshal request: %w", err)
	}

	return a.create(ctx, epayCreatePath, body)
}

// CreateQR creates a QR code payment
func (a *EPayAdapter) CreateQR(ctx context.Context, req payment.CreateRequest) (*payment.CreateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	description := req.Description
	if description == "" {
		description = payment.DefaultDescription(req.OrderID)
	}

	body, err := json.Marshal(epayQRRequest{
		Amount:      json.Number(req.Amount.String()),
		OrderID:     req.OrderID,
		Description: description,
		PaymentType: "qr_code",
	})
	if err != nil {
		return nil, fmt.Errorf("epay: failed to marshal request: %w", err)
	}

	return a.create(ctx, epayQRPath, body)
}

func (a *EPayAdapter) create(ctx context.Context, path string, body []byte) (*payment.CreateResult, error) {
	respBody, err := a.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var resp epayCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, messageOr(resp.Message, "payment creation failed"))
	}
	if resp.TransactionID == "" {
		return nil, fmt.Errorf("%w: missing transaction_id", payment.ErrGatewayInvalidResponse)
	}

	return &payment.CreateResult{
		TransactionID: resp.TransactionID,
		PaymentURL:    resp.PaymentURL,
		QRCode:        resp.QRCode,
		Message:       resp.Message,
	}, nil
}

// GetStatus queries a transaction
func (a *EPayAdapter) GetStatus(ctx context.Context, transactionID string) (*payment.StatusResult, error) {
	if transactionID == "" {
		return nil, payment.ErrInvalidTransactionID
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf(epayStatusPath, url.PathEscape(transactionID)), nil)
	if err != nil {
		return nil, err
	}

	var resp epayStatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, messageOr(resp.Message, "status check failed"))
	}

	status := payment.Status(strings.ToLower(resp.Status))
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", payment.ErrGatewayInvalidResponse, resp.Status)
	}

	result := &payment.StatusResult{
		TransactionID: resp.TransactionID,
		Status:        status,
		Amount:        nullToZero(resp.Amount),
		PaidAmount:    nullToZero(resp.PaidAmount),
		Method:        resp.PaymentMethod,
		Reference:     resp.Reference,
	}
	if result.TransactionID == "" {
		result.TransactionID = transactionID
	}
	if resp.PaidAt != "" {
		paidAt, err := time.Parse(time.RFC3339, resp.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("%w: paid_at %q", payment.ErrGatewayInvalidResponse, resp.PaidAt)
		}
		result.PaidAt = &paidAt
	}

	return result, nil
}

// Cancel cancels a pending transaction
func (a *EPayAdapter) Cancel(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return payment.ErrInvalidTransactionID
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, fmt.Sprintf(epayCancelPath, url.PathEscape(transactionID)), nil)
	if err != nil {
		return err
	}

	var resp epayBasicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, messageOr(resp.Message, "cancellation failed"))
	}
	return nil
}

// doRequest performs an HTTP request to the ePay API inside a client span
func (a *EPayAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "epay "+method,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrPaymentGateway, "epay"),
		telemetry.WithAttribute("url.path", path),
	)
	defer span.End()

	respBody, err := a.send(ctx, method, path, body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return respBody, nil
}

func (a *EPayAdapter) send(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	endpoint := strings.TrimRight(a.config.BaseURL, "/") + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("epay: failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("epay: failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var errResp epayBasicResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d - %s", payment.ErrGatewayRequestFailed, resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
