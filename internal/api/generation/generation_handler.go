package generation

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderwise/wanderwise-api/internal/api"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

type GenerationHandler struct {
	service GenerationService
	logger  *slog.Logger
}

func NewGenerationHandler(service GenerationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{
		logger:  logger,
		service: service,
	}
}

// GenerateItinerary godoc
// @Summary Generate a walking-tour itinerary
// @Description Compiles a prompt from the request and returns the normalized itinerary. The result is not persisted.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body types.GenerationRequest true "generation inputs"
// @Success 200 {object} types.Itinerary
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Security BearerAuth
// @Router /routes/generate [post]
func (h *GenerationHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GenerationHandler").Start(r.Context(), "GenerateItinerary")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	var req types.GenerationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode generation request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	itinerary, err := h.service.Generate(ctx, req)
	if err != nil {
		var validationErr *types.ValidationError
		if errors.As(err, &validationErr) {
			api.ErrorResponse(w, r, http.StatusBadRequest, validationErr.Message)
			return
		}
		// Upstream detail stays in the logs; callers get a retryable failure.
		l.ErrorContext(ctx, "Generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate route")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}
