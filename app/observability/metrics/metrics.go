package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ProviderRequestsTotal   metric.Int64Counter
	ProviderDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New builds the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.ProviderRequestsTotal, err = meter.Int64Counter(
		"weather_provider_requests_total",
		metric.WithDescription("Total number of requests sent to the weather provider"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.ProviderDurationSeconds, err = meter.Float64Histogram(
		"weather_provider_duration_seconds",
		metric.WithDescription("Duration of weather provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE,
// using the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("geo-weather"))
		if err != nil {
			log.Fatalf("Metrics: failed to create instruments: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// RecordProviderCall is nil-safe so clients built without metrics keep working.
func (m *AppMetrics) RecordProviderCall(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	))
	m.ProviderDurationSeconds.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("endpoint", endpoint),
	))
}

func (m *AppMetrics) RecordDBError(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
