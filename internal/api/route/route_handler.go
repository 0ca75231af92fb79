package route

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderwise/wanderwise-api/internal/api"
	"github.com/wanderwise/wanderwise-api/internal/api/auth"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

type RouteHandler struct {
	service RouteService
	logger  *slog.Logger
}

func NewRouteHandler(service RouteService, logger *slog.Logger) *RouteHandler {
	return &RouteHandler{
		logger:  logger,
		service: service,
	}
}

// SaveRoute godoc
// @Summary Save a generated itinerary
// @Tags routes
// @Accept json
// @Produce json
// @Param request body types.SaveRouteRequest true "itinerary and the request it came from"
// @Success 201 {object} types.RouteWithStops
// @Security BearerAuth
// @Router /routes [post]
func (h *RouteHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "SaveRoute")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SaveRoute"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req types.SaveRouteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Itinerary.RouteName == "" || len(req.Itinerary.Stops) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itinerary with a name and at least one stop is required")
		return
	}

	saved, err := h.service.SaveRoute(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save route", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save route")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

// ListRoutes godoc
// @Summary List the user's saved routes
// @Tags routes
// @Produce json
// @Success 200 {array} types.Route
// @Security BearerAuth
// @Router /routes [get]
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "ListRoutes")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	routes, err := h.service.ListRoutes(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list routes", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list routes")
		return
	}
	if routes == nil {
		routes = []types.Route{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, routes)
}

// GetRoute godoc
// @Summary Get one route with its stops
// @Tags routes
// @Produce json
// @Param routeID path string true "route id"
// @Success 200 {object} types.RouteWithStops
// @Security BearerAuth
// @Router /routes/{routeID} [get]
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "GetRoute")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetRouteDetail(ctx, routeID, userID)
	if err != nil {
		h.respondServiceError(ctx, w, r, span, err, "Failed to load route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// DeleteRoute godoc
// @Summary Delete a route
// @Tags routes
// @Param routeID path string true "route id"
// @Success 204
// @Security BearerAuth
// @Router /routes/{routeID} [delete]
func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "DeleteRoute")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRoute(ctx, routeID, userID); err != nil {
		h.respondServiceError(ctx, w, r, span, err, "Failed to delete route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// ShareRoute godoc
// @Summary Enable link sharing for a route
// @Tags sharing
// @Produce json
// @Param routeID path string true "route id"
// @Success 200 {object} types.ShareResponse
// @Security BearerAuth
// @Router /routes/{routeID}/share [post]
func (h *RouteHandler) ShareRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "ShareRoute")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	share, err := h.service.ShareRoute(ctx, routeID, userID)
	if err != nil {
		h.respondServiceError(ctx, w, r, span, err, "Failed to share route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, share)
}

// UnshareRoute disables link sharing; the existing token stops resolving.
func (h *RouteHandler) UnshareRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "UnshareRoute")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	if err := h.service.UnshareRoute(ctx, routeID, userID); err != nil {
		h.respondServiceError(ctx, w, r, span, err, "Failed to unshare route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// GetSharedRoute godoc
// @Summary Resolve a shared route by token
// @Tags sharing
// @Produce json
// @Param token path string true "share token"
// @Success 200 {object} types.RouteWithStops
// @Router /shared/{token} [get]
func (h *RouteHandler) GetSharedRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "GetSharedRoute")
	defer span.End()

	token := chi.URLParam(r, "token")
	if token == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "share token is required")
		return
	}

	detail, err := h.service.GetSharedRoute(ctx, token)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Shared route not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to resolve shared route", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load shared route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// CopySharedRoute godoc
// @Summary Copy a shared route into the caller's collection
// @Tags sharing
// @Produce json
// @Param token path string true "share token"
// @Success 201 {object} types.RouteWithStops
// @Security BearerAuth
// @Router /shared/{token}/copy [post]
func (h *RouteHandler) CopySharedRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "CopySharedRoute")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	token := chi.URLParam(r, "token")
	if token == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "share token is required")
		return
	}

	copied, err := h.service.CopySharedRoute(ctx, token, userID)
	if err != nil {
		h.respondServiceError(ctx, w, r, span, err, "Failed to copy route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, copied)
}

// StartEdit opens an edit session for the route and returns the staged state.
func (h *RouteHandler) StartEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "StartEdit")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	state, err := h.service.StartEdit(ctx, routeID, userID)
	if err != nil {
		h.respondServiceError(ctx, w, r, span, err, "Failed to start edit session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

// ApplyEdit runs one edit command against the open session.
func (h *RouteHandler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "ApplyEdit")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	var cmd types.EditCommand
	if err := api.DecodeJSONBody(w, r, &cmd); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.service.ApplyEdit(ctx, routeID, userID, cmd)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoEditSession):
			api.ErrorResponse(w, r, http.StatusNotFound, "No edit session for this route")
		case errors.Is(err, ErrSaveInFlight):
			api.ErrorResponse(w, r, http.StatusConflict, "A save is already in progress")
		case errors.Is(err, ErrUnknownStop):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Stop not found in edit session")
		default:
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

// CancelEdit discards the open session without saving.
func (h *RouteHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "CancelEdit")
	defer span.End()

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelEdit(ctx, routeID, userID); err != nil {
		if errors.Is(err, ErrNoEditSession) {
			api.ErrorResponse(w, r, http.StatusNotFound, "No edit session for this route")
			return
		}
		if errors.Is(err, ErrSaveInFlight) {
			api.ErrorResponse(w, r, http.StatusConflict, "A save is already in progress")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to cancel edit", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to cancel edit session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// SaveEdit commits the session and returns the reloaded persisted route.
func (h *RouteHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouteHandler").Start(r.Context(), "SaveEdit")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SaveEdit"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	routeID, ok := parseRouteID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.SaveEdit(ctx, routeID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoEditSession):
			api.ErrorResponse(w, r, http.StatusNotFound, "No edit session for this route")
		case errors.Is(err, ErrSaveInFlight):
			api.ErrorResponse(w, r, http.StatusConflict, "A save is already in progress")
		default:
			l.ErrorContext(ctx, "Failed to save edit", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to save edit")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save changes")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// respondServiceError maps service errors to the right status: missing or
// foreign routes are a 404, everything else a logged 500.
func (h *RouteHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, err error, msg string) {
	if errors.Is(err, ErrRouteNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Route not found")
		return
	}
	h.logger.ErrorContext(ctx, msg, slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	api.ErrorResponse(w, r, http.StatusInternalServerError, msg)
}

func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || idStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid user identity")
		return uuid.Nil, false
	}
	return userID, true
}

func parseRouteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	routeID, err := uuid.Parse(chi.URLParam(r, "routeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid route id")
		return uuid.Nil, false
	}
	return routeID, true
}
