// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides storefront business metrics.
// It tracks order placement, order value, and lifecycle transitions.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	orderPlacedTotal *Counter
	orderAmountTotal *Counter
	orderStatusTotal *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	bm.orderPlacedTotal, err = NewCounter(
		cfg.Meter,
		"store_order_placed_total",
		"Total number of orders placed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"store_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderStatusTotal, err = NewCounter(
		cfg.Meter,
		"store_order_status_total",
		"Total number of order lifecycle transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordOrderPlaced records an order placement event.
// This should be called from the application layer after checkout commits.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string) {
	bm.orderPlacedTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOrderAmount records the order total.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, paymentMethod string, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, paymentMethod string, total decimal.Decimal) {
	bm.RecordOrderPlaced(ctx, paymentMethod)

	// Convert to cents (multiply by 100)
	amountCents := total.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, paymentMethod, amountCents)
}

// RecordStatusChange records an order lifecycle transition into a status.
func (bm *BusinessMetrics) RecordStatusChange(ctx context.Context, status string) {
	bm.orderStatusTotal.Inc(ctx,
		AttrOrderStatus.String(status),
	)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
