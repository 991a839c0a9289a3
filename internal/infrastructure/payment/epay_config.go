package payment

import (
	"errors"
	"net/url"
	"time"
)

// DefaultEPayBaseURL is the merchant endpoint of the ePay gateway
const DefaultEPayBaseURL = "https://epay.tonow.net/689b6f2882c7bd60a6ef4bc6"

// EPayConfig contains configuration for the ePay API
type EPayConfig struct {
	// BaseURL is the merchant API root
	BaseURL string
	// APIKey is sent as a bearer token
	APIKey string
	// Timeout bounds every gateway call. Default: 30s
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrEPayMissingBaseURL = errors.New("epay: missing base URL")
	ErrEPayInvalidBaseURL = errors.New("epay: invalid base URL")
	ErrEPayMissingAPIKey  = errors.New("epay: missing API key")
)

// Validate validates the configuration
func (c *EPayConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrEPayMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrEPayInvalidBaseURL
	}
	if c.APIKey == "" {
		return ErrEPayMissingAPIKey
	}
	return nil
}
