package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cashflowgame/finance-service"

// Recorder implements port.Metrics with OpenTelemetry instruments. Behind the
// Prometheus exporter with the "finance" namespace they surface as
// finance_operations_total and finance_operation_duration_seconds.
type Recorder struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewRecorder creates the instruments on the given provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	operations, err := meter.Int64Counter("operations",
		metric.WithDescription("Financial engine operations by outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: operations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("operation_duration",
		metric.WithDescription("Financial engine operation latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: duration histogram: %w", err)
	}
	return &Recorder{operations: operations, duration: duration}, nil
}

func (r *Recorder) RecordOperation(ctx context.Context, operation, outcome string, elapsed time.Duration) {
	r.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
	r.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
