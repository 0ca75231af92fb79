package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/wanderwise/wanderwise-api/app/observability/metrics"
	"github.com/wanderwise/wanderwise-api/internal/api/completion"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

// GenerationService produces a normalized itinerary for a generation request.
type GenerationService interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.Itinerary, error)
}

var _ GenerationService = (*GenerationServiceImpl)(nil)

type GenerationServiceImpl struct {
	logger *slog.Logger
	client completion.Client
}

func NewGenerationService(client completion.Client, logger *slog.Logger) *GenerationServiceImpl {
	return &GenerationServiceImpl{
		logger: logger,
		client: client,
	}
}

// Generate validates, compiles the prompt, calls the completion backend and
// normalizes its answer. Validation failures return before any network I/O.
func (s *GenerationServiceImpl) Generate(ctx context.Context, req types.GenerationRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("GenerationService").Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("generation.city", req.City),
		attribute.Float64("generation.duration_hours", req.Duration),
	)
	l := s.logger.With(slog.String("service", "Generate"), slog.String("city", req.City))

	if err := ValidateRequest(req); err != nil {
		span.SetStatus(codes.Error, "Invalid generation request")
		return nil, err
	}

	m := metrics.Get()
	start := time.Now()
	defer func() {
		m.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	prompt := CompilePrompt(req)
	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		m.CompletionFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "call")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion call failed")
		l.ErrorContext(ctx, "Completion call failed", slog.Any("error", err))
		return nil, fmt.Errorf("completion call failed: %w", err)
	}

	itinerary, err := NormalizeCompletion(raw)
	if err != nil {
		m.CompletionFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "parse")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion could not be parsed")
		l.ErrorContext(ctx, "Completion could not be parsed", slog.Any("error", err))
		return nil, err
	}

	m.GenerationRequestsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Itinerary generated",
		slog.String("route_name", itinerary.RouteName),
		slog.Int("stops", len(itinerary.Stops)),
	)
	span.SetStatus(codes.Ok, "Itinerary generated")
	return itinerary, nil
}
