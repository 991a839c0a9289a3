package backend

import (
	"errors"
	"net/url"
	"time"
)

// DefaultBaseURL is the store backend used in local development
const DefaultBaseURL = "http://localhost:8082"

// DefaultTimeout bounds a single backend call
const DefaultTimeout = 10 * time.Second

var (
	ErrMissingBaseURL = errors.New("backend: base URL is required")
	ErrInvalidBaseURL = errors.New("backend: base URL must be an absolute http(s) URL")
)

// Config holds store backend client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate checks the base URL
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidBaseURL
	}
	return nil
}
