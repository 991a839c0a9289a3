package payment

import (
	"context"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
)

// UnconfiguredGateway stands in for ePay when no credentials are set.
// Every call fails with payment.ErrGatewayNotConfigured.
type UnconfiguredGateway struct{}

var _ payment.Gateway = UnconfiguredGateway{}

func (UnconfiguredGateway) CreatePayment(context.Context, payment.CreateRequest) (*payment.CreateResult, error) {
	return nil, payment.ErrGatewayNotConfigured
}

func (UnconfiguredGateway) GetStatus(context.Context, string) (*payment.StatusResult, error) {
	return nil, payment.ErrGatewayNotConfigured
}

func (UnconfiguredGateway) Cancel(context.Context, string) error {
	return payment.ErrGatewayNotConfigured
}

func (UnconfiguredGateway) CreateQR(context.Context, payment.CreateRequest) (*payment.CreateResult, error) {
	return nil, payment.ErrGatewayNotConfigured
}

// NewGateway returns the ePay adapter, or UnconfiguredGateway when cfg has
// no API key. Any other configuration error is returned.
func NewGateway(cfg *EPayConfig) (payment.Gateway, error) {
	if cfg.APIKey == "" {
		return UnconfiguredGateway{}, nil
	}
	adapter, err := NewEPayAdapter(cfg)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}
