package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// timedCounter pairs a "<prefix>_total" counter with a
// "<prefix>_duration_seconds" histogram recorded under the same labels.
type timedCounter struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

func newTimedCounter(meter metric.Meter, prefix, what, unit string) (*timedCounter, error) {
	total, err := meter.Int64Counter(
		prefix+"_total",
		metric.WithDescription("Total number of "+what),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", prefix, err)
	}

	duration, err := meter.Float64Histogram(
		prefix+"_duration_seconds",
		metric.WithDescription("Duration of "+what+" in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", prefix, err)
	}

	return &timedCounter{total: total, duration: duration}, nil
}

func (t *timedCounter) observe(ctx context.Context, elapsed time.Duration, attrs ...attribute.KeyValue) {
	set := metric.WithAttributeSet(attribute.NewSet(attrs...))
	t.total.Add(ctx, 1, set)
	t.duration.Record(ctx, elapsed.Seconds(), set)
}

// durationBuckets covers a cached read (sub-millisecond) up to a PBKDF2
// derivation under a slow database round trip.
var durationBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}
