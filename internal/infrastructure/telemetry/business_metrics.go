package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned by NewBusinessMetrics without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// DefaultCollectInterval is how often gauge metrics are refreshed
const DefaultCollectInterval = 5 * time.Minute

// PaymentStatsProvider reports how many stored payments sit in each status
type PaymentStatsProvider interface {
	CountPaymentsByStatus(ctx context.Context) (map[string]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration
	PaymentStats    PaymentStatsProvider
}

// BusinessMetrics counts checkouts and payment status changes and
// periodically samples stored payments per status.
type BusinessMetrics struct {
	logger *zap.Logger

	checkoutTotal    *Counter
	paymentTotal     *Counter
	paymentsByStatus *Gauge

	stats    PaymentStatsProvider
	interval time.Duration

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// NewBusinessMetrics creates the business instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval <= 0 {
		interval = DefaultCollectInterval
	}

	bm := &BusinessMetrics{
		logger:   logger,
		stats:    cfg.PaymentStats,
		interval: interval,
		stopChan: make(chan struct{}),
	}

	var err error
	bm.checkoutTotal, err = NewCounter(cfg.Meter,
		"storefront_checkout_total",
		"Checkouts attempted, by payment method and outcome",
		"{checkout}",
	)
	if err != nil {
		return nil, err
	}
	bm.paymentTotal, err = NewCounter(cfg.Meter,
		"storefront_payment_status_total",
		"Payment status transitions, by payment method and new status",
		"{payment}",
	)
	if err != nil {
		return nil, err
	}
	bm.paymentsByStatus, err = NewGauge(cfg.Meter,
		"storefront_payments",
		"Stored payments per status",
		"{payment}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordCheckout counts a checkout attempt
func (bm *BusinessMetrics) RecordCheckout(ctx context.Context, method string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	bm.checkoutTotal.Inc(ctx,
		AttrPaymentMethod.String(method),
		AttrOutcome.String(outcome),
	)
}

// RecordPayment counts a payment moving to status
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, method string, status string) {
	bm.paymentTotal.Inc(ctx,
		AttrPaymentMethod.String(method),
		AttrPaymentStatus.String(status),
	)
}

// StartPeriodicCollection samples payment counts every interval until Stop
// is called or ctx ends. It does nothing without a stats provider.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context) {
	if bm.stats == nil {
		return
	}
	bm.collectOnce.Do(func() {
		bm.wg.Add(1)
		go bm.runPeriodicCollection(ctx)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context) {
	defer bm.wg.Done()

	ticker := time.NewTicker(bm.interval)
	defer ticker.Stop()

	bm.collect(ctx)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	counts, err := bm.stats.CountPaymentsByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect payment metrics", zap.Error(err))
		return
	}
	for status, n := range counts {
		bm.paymentsByStatus.Record(ctx, n, AttrPaymentStatus.String(status))
	}
}

// Stop ends periodic collection and waits for the collector to exit
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
	bm.wg.Wait()
}
