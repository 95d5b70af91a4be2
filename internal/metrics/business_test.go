package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetrics_Observe(t *testing.T) {
	provider := newTestProvider(t)
	bm, err := NewBusinessMetrics(provider.MeterProvider(), "sensitive_data")
	require.NoError(t, err)

	ctx := context.Background()
	bm.Observe(ctx, "record_create", StatusSuccess, 40*time.Millisecond)
	bm.Observe(ctx, "record_create", StatusSuccess, 60*time.Millisecond)
	bm.Observe(ctx, "data_set", StatusError, 2*time.Millisecond)
	bm.Observe(ctx, "field_get", StatusIntegrityError, 30*time.Millisecond)

	output := scrape(t, provider)

	assertSeries(t, output, "sensitive_data_operations_total",
		`operation="record_create",.*status="success"`, "2")
	assertSeries(t, output, "sensitive_data_operations_total",
		`operation="data_set",.*status="error"`, "1")
	assertSeries(t, output, "sensitive_data_operations_total",
		`operation="field_get",.*status="integrity_error"`, "1")

	assertSeries(t, output, "sensitive_data_operations_duration_seconds_count",
		`operation="record_create",.*status="success"`, "2")
	assertSeries(t, output, "sensitive_data_operations_duration_seconds_bucket",
		`le="0.05",.*operation="record_create",.*status="success"`, "1")
	assertSeries(t, output, "sensitive_data_operations_duration_seconds_bucket",
		`le="0.1",.*operation="record_create",.*status="success"`, "2")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)
	assert.NotPanics(t, func() {
		bm.Observe(context.Background(), "data_get", StatusSuccess, time.Millisecond)
	})
}
