// Package backend is the REST client for the store backend. It implements the
// catalog source, the review source and the cart backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/shared"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/telemetry"
)

// maxErrorBody caps how much of an error response is read for its message
const maxErrorBody = 4 << 10

// Client calls the store backend. Session-bound calls forward the caller's
// Cookie header unchanged.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new backend client
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}, nil
}

type errorResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do sends a request and decodes a JSON response into out when out is not nil
func (c *Client) do(ctx context.Context, method, path, session string, in, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "backend "+method,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.request.method", method),
		telemetry.WithAttribute("url.path", path),
	)
	defer span.End()

	err := c.roundTrip(ctx, method, path, session, in, out)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetOK(span)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, session string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if session != "" {
		req.Header.Set("Cookie", session)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty response from %s", shared.ErrUpstreamUnavailable, path)
		}
		return fmt.Errorf("%w: invalid response from %s: %v", shared.ErrUpstreamUnavailable, path, err)
	}
	return nil
}

// statusError maps a non-2xx backend status onto the domain error set
func statusError(status int, raw []byte) error {
	var body errorResponse
	_ = json.Unmarshal(raw, &body)
	msg := body.text()

	switch {
	case status == http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case status == http.StatusForbidden:
		return shared.ErrForbidden
	case status == http.StatusNotFound:
		if msg != "" {
			return shared.NewDomainError("NOT_FOUND", msg)
		}
		return shared.ErrNotFound
	case status == http.StatusConflict:
		return shared.NewDomainError("ALREADY_EXISTS", messageOr(msg, "resource already exists"))
	case status >= 400 && status < 500:
		return shared.NewDomainError("INVALID_INPUT", messageOr(msg, fmt.Sprintf("backend rejected request (HTTP %d)", status)))
	default:
		return fmt.Errorf("%w: HTTP %d", shared.ErrUpstreamUnavailable, status)
	}
}

// rejected turns a 2xx {success:false} body into an input error
func rejected(success bool, msg, fallback string) error {
	if success {
		return nil
	}
	return shared.NewDomainError("INVALID_INPUT", messageOr(msg, fallback))
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp shapes the backend emits. Zone-less values
// are read as UTC.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
