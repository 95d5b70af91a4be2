package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status label values for record operations.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	// StatusIntegrityError marks tampered or undecryptable stored values.
	StatusIntegrityError = "integrity_error"
)

// BusinessMetrics records record use case operations, e.g. "data_get" or
// "field_set", with one of the Status values.
type BusinessMetrics interface {
	Observe(ctx context.Context, operation, status string, elapsed time.Duration)
}

type businessMetrics struct {
	operations *timedCounter
}

// NewBusinessMetrics registers "<namespace>_operations_total" and
// "<namespace>_operations_duration_seconds".
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	operations, err := newTimedCounter(
		meterProvider.Meter(namespace),
		namespace+"_operations",
		"record operations",
		"{operation}",
	)
	if err != nil {
		return nil, err
	}
	return &businessMetrics{operations: operations}, nil
}

func (b *businessMetrics) Observe(ctx context.Context, operation, status string, elapsed time.Duration) {
	b.operations.observe(ctx, elapsed,
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// Observe does nothing.
func (n *NoOpBusinessMetrics) Observe(context.Context, string, string, time.Duration) {}
