package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationRequestsTotal   metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	CompletionFailuresTotal   metric.Int64Counter
	RouteSavesTotal           metric.Int64Counter
	EditCommitsTotal          metric.Int64Counter
	DbQueryDurationSeconds    metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("wanderwise-api")
		var err error
		m := &AppMetrics{}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"generation_requests_total",
			metric.WithDescription("Total number of itinerary generation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_requests_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"generation_duration_seconds",
			metric.WithDescription("Duration of itinerary generation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_duration_seconds: %v", err)
		}

		m.CompletionFailuresTotal, err = meter.Int64Counter(
			"completion_failures_total",
			metric.WithDescription("Completion-service calls that failed or returned unparseable output"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create completion_failures_total: %v", err)
		}

		m.RouteSavesTotal, err = meter.Int64Counter(
			"route_saves_total",
			metric.WithDescription("Routes persisted from freshly generated itineraries"),
			metric.WithUnit("{route}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create route_saves_total: %v", err)
		}

		m.EditCommitsTotal, err = meter.Int64Counter(
			"edit_commits_total",
			metric.WithDescription("Edit sessions committed to the store"),
			metric.WithUnit("{commit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create edit_commits_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database operations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics instruments. InitAppMetrics must have
// been called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
