package route

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderwise/wanderwise-api/app/observability/metrics"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

// RouteService owns persisted routes and the edit flow over them.
type RouteService interface {
	SaveRoute(ctx context.Context, userID uuid.UUID, req types.SaveRouteRequest) (*types.RouteWithStops, error)
	GetRouteDetail(ctx context.Context, routeID, userID uuid.UUID) (*types.RouteWithStops, error)
	ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error)
	DeleteRoute(ctx context.Context, routeID, userID uuid.UUID) error

	ShareRoute(ctx context.Context, routeID, userID uuid.UUID) (*types.ShareResponse, error)
	UnshareRoute(ctx context.Context, routeID, userID uuid.UUID) error
	GetSharedRoute(ctx context.Context, token string) (*types.RouteWithStops, error)
	CopySharedRoute(ctx context.Context, token string, userID uuid.UUID) (*types.RouteWithStops, error)

	StartEdit(ctx context.Context, routeID, userID uuid.UUID) (*types.EditSessionState, error)
	ApplyEdit(ctx context.Context, routeID, userID uuid.UUID, cmd types.EditCommand) (*types.EditSessionState, error)
	CancelEdit(ctx context.Context, routeID, userID uuid.UUID) error
	SaveEdit(ctx context.Context, routeID, userID uuid.UUID) (*types.RouteWithStops, error)
}

var _ RouteService = (*RouteServiceImpl)(nil)

type RouteServiceImpl struct {
	logger   *slog.Logger
	repo     RouteRepo
	sessions *EditSessionManager

	// Shared-route lookups are unauthenticated and link-driven, so they get
	// a short read-through cache.
	sharedCache *cache.Cache
}

func NewRouteService(repo RouteRepo, logger *slog.Logger) *RouteServiceImpl {
	return &RouteServiceImpl{
		logger:      logger,
		repo:        repo,
		sessions:    NewEditSessionManager(logger),
		sharedCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// SaveRoute persists a freshly generated itinerary for the user.
func (s *RouteServiceImpl) SaveRoute(ctx context.Context, userID uuid.UUID, req types.SaveRouteRequest) (*types.RouteWithStops, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "SaveRoute")
	defer span.End()
	l := s.logger.With(slog.String("service", "SaveRoute"), slog.String("user_id", userID.String()))

	route, err := s.repo.CreateRoute(ctx, userID, req.Itinerary, req.Request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create route")
		return nil, err
	}
	stops, err := s.repo.GetRouteStops(ctx, route.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reload stops after save: %w", err)
	}

	metrics.Get().RouteSavesTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Route saved",
		slog.String("route_id", route.ID.String()),
		slog.Int("stops", len(stops)),
	)
	span.SetStatus(codes.Ok, "Route saved")
	return &types.RouteWithStops{Route: *route, Stops: stops}, nil
}

func (s *RouteServiceImpl) GetRouteDetail(ctx context.Context, routeID, userID uuid.UUID) (*types.RouteWithStops, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "GetRouteDetail")
	defer span.End()

	route, err := s.repo.GetRoute(ctx, routeID, userID)
	if err != nil {
		return nil, err
	}
	stops, err := s.repo.GetRouteStops(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return &types.RouteWithStops{Route: *route, Stops: stops}, nil
}

func (s *RouteServiceImpl) ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "ListRoutes")
	defer span.End()
	return s.repo.ListRoutes(ctx, userID)
}

func (s *RouteServiceImpl) DeleteRoute(ctx context.Context, routeID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "DeleteRoute")
	defer span.End()

	route, err := s.repo.GetRoute(ctx, routeID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRoute(ctx, routeID, userID); err != nil {
		span.RecordError(err)
		return err
	}
	if route.ShareToken != nil {
		s.sharedCache.Delete(*route.ShareToken)
	}
	return nil
}

// ShareRoute enables link sharing, minting a token on first share and reusing
// it afterwards.
func (s *RouteServiceImpl) ShareRoute(ctx context.Context, routeID, userID uuid.UUID) (*types.ShareResponse, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "ShareRoute")
	defer span.End()

	route, err := s.repo.GetRoute(ctx, routeID, userID)
	if err != nil {
		return nil, err
	}

	token := route.ShareToken
	if token == nil {
		minted := uuid.NewString()
		token = &minted
	}
	if err := s.repo.SetShared(ctx, routeID, userID, true, token); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to share route")
		return nil, err
	}

	s.logger.InfoContext(ctx, "Route shared", slog.String("route_id", routeID.String()))
	return &types.ShareResponse{ShareToken: *token, IsShared: true}, nil
}

func (s *RouteServiceImpl) UnshareRoute(ctx context.Context, routeID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "UnshareRoute")
	defer span.End()

	route, err := s.repo.GetRoute(ctx, routeID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.SetShared(ctx, routeID, userID, false, nil); err != nil {
		span.RecordError(err)
		return err
	}
	if route.ShareToken != nil {
		s.sharedCache.Delete(*route.ShareToken)
	}
	return nil
}

// GetSharedRoute resolves a share token to a route, serving repeat lookups
// from cache.
func (s *RouteServiceImpl) GetSharedRoute(ctx context.Context, token string) (*types.RouteWithStops, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "GetSharedRoute")
	defer span.End()

	if cached, found := s.sharedCache.Get(token); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.(*types.RouteWithStops), nil
	}

	route, err := s.repo.GetRouteByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	stops, err := s.repo.GetRouteStops(ctx, route.ID)
	if err != nil {
		return nil, err
	}

	result := &types.RouteWithStops{Route: *route, Stops: stops}
	s.sharedCache.Set(token, result, cache.DefaultExpiration)
	return result, nil
}

// CopySharedRoute clones a shared route into the copying user's collection.
// The copy gets fresh identifiers and is private regardless of the source's
// sharing state.
func (s *RouteServiceImpl) CopySharedRoute(ctx context.Context, token string, userID uuid.UUID) (*types.RouteWithStops, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "CopySharedRoute")
	defer span.End()
	l := s.logger.With(slog.String("service", "CopySharedRoute"))

	src, err := s.GetSharedRoute(ctx, token)
	if err != nil {
		return nil, err
	}

	itinerary := types.Itinerary{
		RouteName:     src.Route.RouteName + " (Copy)",
		TotalDistance: src.Route.TotalDistance,
		EstimatedTime: src.Route.EstimatedTime,
		Difficulty:    src.Route.Difficulty,
		Overview:      src.Route.Overview,
		Tips:          src.Route.Tips,
		Stops:         make([]types.ItineraryStop, len(src.Stops)),
	}
	for i, stop := range src.Stops {
		itinerary.Stops[i] = types.ItineraryStop{
			Number:      i + 1,
			Name:        stop.Name,
			Description: stop.Description,
			Duration:    stop.Duration,
			WalkToNext:  derefString(stop.WalkToNext),
			Address:     derefString(stop.Address),
			Latitude:    stop.Latitude,
			Longitude:   stop.Longitude,
		}
	}
	req := types.GenerationRequest{
		City:      src.Route.City,
		Interests: src.Route.Interests,
		Fitness:   src.Route.FitnessLevel,
		Duration:  src.Route.Duration,
	}

	copied, err := s.repo.CreateRoute(ctx, userID, itinerary, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to copy route")
		return nil, err
	}
	stops, err := s.repo.GetRouteStops(ctx, copied.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload stops after copy: %w", err)
	}

	l.InfoContext(ctx, "Shared route copied",
		slog.String("source_route_id", src.Route.ID.String()),
		slog.String("route_id", copied.ID.String()),
	)
	return &types.RouteWithStops{Route: *copied, Stops: stops}, nil
}

// StartEdit loads the route and opens an edit session snapshotting it.
func (s *RouteServiceImpl) StartEdit(ctx context.Context, routeID, userID uuid.UUID) (*types.EditSessionState, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "StartEdit")
	defer span.End()

	detail, err := s.GetRouteDetail(ctx, routeID, userID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Start(userID, detail.Route, detail.Stops), nil
}

func (s *RouteServiceImpl) ApplyEdit(ctx context.Context, routeID, userID uuid.UUID, cmd types.EditCommand) (*types.EditSessionState, error) {
	_, span := otel.Tracer("RouteService").Start(ctx, "ApplyEdit")
	defer span.End()
	span.SetAttributes(attribute.String("edit.op", cmd.Op))
	return s.sessions.Apply(routeID, userID, cmd)
}

func (s *RouteServiceImpl) CancelEdit(ctx context.Context, routeID, userID uuid.UUID) error {
	_, span := otel.Tracer("RouteService").Start(ctx, "CancelEdit")
	defer span.End()
	return s.sessions.Cancel(routeID, userID)
}

// SaveEdit commits the staged edit and reloads the authoritative state. On
// failure the session is retained so the user can retry or cancel.
func (s *RouteServiceImpl) SaveEdit(ctx context.Context, routeID, userID uuid.UUID) (*types.RouteWithStops, error) {
	ctx, span := otel.Tracer("RouteService").Start(ctx, "SaveEdit")
	defer span.End()
	l := s.logger.With(slog.String("service", "SaveEdit"), slog.String("route_id", routeID.String()))

	fields, baseline, working, err := s.sessions.BeginSave(routeID, userID)
	if err != nil {
		return nil, err
	}

	diff := ComputeStopDiff(baseline, working)
	if err := s.repo.CommitEdit(ctx, routeID, fields, diff); err != nil {
		s.sessions.EndSave(routeID, false)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Edit commit failed")
		l.ErrorContext(ctx, "Edit commit failed", slog.Any("error", err))
		return nil, err
	}
	s.sessions.EndSave(routeID, true)

	route, err := s.repo.GetRoute(ctx, routeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload route after commit: %w", err)
	}
	stops, err := s.repo.GetRouteStops(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload stops after commit: %w", err)
	}
	if route.ShareToken != nil {
		s.sharedCache.Delete(*route.ShareToken)
	}

	l.InfoContext(ctx, "Edit committed",
		slog.Int("deletes", len(diff.Deletes)),
		slog.Int("updates", len(diff.Updates)),
		slog.Int("inserts", len(diff.Inserts)),
	)
	span.SetStatus(codes.Ok, "Edit committed")
	return &types.RouteWithStops{Route: *route, Stops: stops}, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
