package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status labels shared by every recorded operation.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BusinessMetrics records what the stamp card service does, independent of transport.
type BusinessMetrics interface {
	// RecordOperation counts one operation, e.g. ("redemption", "confirm", "success").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes how long an operation took.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordTokenAge observes the age of a QR token at the moment it was decoded.
	// Outcome is "fresh", "expired" or "malformed".
	RecordTokenAge(ctx context.Context, outcome string, age time.Duration)

	// AddActiveCoordinators moves the gauge of live per-staff redemption coordinators.
	AddActiveCoordinators(ctx context.Context, delta int64)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	tokenAgeHisto    metric.Float64Histogram
	coordinators     metric.Int64UpDownCounter
}

// NewBusinessMetrics creates the business instruments, prefixing every name with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	tokenAgeHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_qr_token_age_seconds", namespace),
		metric.WithDescription("Age of scanned QR tokens at decode time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 15, 30, 45, 60, 90, 300),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token age histogram: %w", err)
	}

	coordinators, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_redemption_coordinators", namespace),
		metric.WithDescription("Number of live redemption coordinators"),
		metric.WithUnit("{coordinator}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coordinator gauge: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		tokenAgeHisto:    tokenAgeHisto,
		coordinators:     coordinators,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, metric.WithAttributes(operationAttrs(domain, operation, status)...))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(operationAttrs(domain, operation, status)...))
}

func (b *businessMetrics) RecordTokenAge(ctx context.Context, outcome string, age time.Duration) {
	if age < 0 {
		age = 0
	}
	b.tokenAgeHisto.Record(ctx, age.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (b *businessMetrics) AddActiveCoordinators(ctx context.Context, delta int64) {
	b.coordinators.Add(ctx, delta)
}

func operationAttrs(domain, operation, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	}
}

// NoOpBusinessMetrics discards everything. Used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordTokenAge(ctx context.Context, outcome string, age time.Duration) {}

func (n *NoOpBusinessMetrics) AddActiveCoordinators(ctx context.Context, delta int64) {}
