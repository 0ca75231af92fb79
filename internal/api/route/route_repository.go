package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wanderwise/wanderwise-api/app/observability/metrics"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

var ErrRouteNotFound = errors.New("route not found")

// PGXPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PGXPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RouteRepo interface {
	CreateRoute(ctx context.Context, userID uuid.UUID, itinerary types.Itinerary, req types.GenerationRequest) (*types.Route, error)
	CommitEdit(ctx context.Context, routeID uuid.UUID, fields types.RouteFields, diff StopDiff) error
	GetRoute(ctx context.Context, routeID, userID uuid.UUID) (*types.Route, error)
	GetRouteStops(ctx context.Context, routeID uuid.UUID) ([]types.Stop, error)
	ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error)
	GetRouteByShareToken(ctx context.Context, token string) (*types.Route, error)
	DeleteRoute(ctx context.Context, routeID, userID uuid.UUID) error
	SetShared(ctx context.Context, routeID, userID uuid.UUID, shared bool, token *string) error
}

var _ RouteRepo = (*PostgresRouteRepo)(nil)

type PostgresRouteRepo struct {
	pool PGXPool
}

func NewPostgresRouteRepo(pool PGXPool) *PostgresRouteRepo {
	return &PostgresRouteRepo{pool: pool}
}

const routeColumns = `id, user_id, route_name, city, total_distance, estimated_time, difficulty,
       overview, fitness_level, duration, interests, tips, share_token, is_shared, created_at`

const insertStopQuery = `
        INSERT INTO stops (route_id, stop_number, name, description, duration, walk_to_next, address, latitude, longitude)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// CreateRoute persists a generated itinerary: one route row, then its stops,
// inside a single transaction. Stop numbers are derived from list position.
func (r *PostgresRouteRepo) CreateRoute(ctx context.Context, userID uuid.UUID, itinerary types.Itinerary, req types.GenerationRequest) (*types.Route, error) {
	start := time.Now()
	defer func() {
		metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, &types.StoreOperationError{Op: "createRoute.begin", Err: err}
	}
	defer tx.Rollback(ctx)

	route := types.Route{
		UserID:        userID,
		RouteName:     itinerary.RouteName,
		City:          req.City,
		TotalDistance: itinerary.TotalDistance,
		EstimatedTime: itinerary.EstimatedTime,
		Difficulty:    itinerary.Difficulty,
		Overview:      itinerary.Overview,
		FitnessLevel:  req.Fitness,
		Duration:      req.Duration,
		Interests:     req.Interests,
		Tips:          itinerary.Tips,
	}
	err = tx.QueryRow(ctx, `
        INSERT INTO routes (user_id, route_name, city, total_distance, estimated_time, difficulty, overview, fitness_level, duration, interests, tips)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at`,
		route.UserID, route.RouteName, route.City, route.TotalDistance, route.EstimatedTime,
		route.Difficulty, route.Overview, route.FitnessLevel, route.Duration, route.Interests, route.Tips,
	).Scan(&route.ID, &route.CreatedAt)
	if err != nil {
		return nil, &types.StoreOperationError{Op: "createRoute.insertRoute", Err: err}
	}

	for i, stop := range itinerary.Stops {
		_, err = tx.Exec(ctx, insertStopQuery,
			route.ID, i+1, stop.Name, stop.Description, stop.Duration,
			nilIfEmpty(stop.WalkToNext), nilIfEmpty(stop.Address), stop.Latitude, stop.Longitude,
		)
		if err != nil {
			return nil, &types.StoreOperationError{Op: "createRoute.insertStop", Err: err}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, &types.StoreOperationError{Op: "createRoute.commit", Err: err}
	}
	return &route, nil
}

// CommitEdit applies a staged edit in one transaction: route fields first,
// then the stop diff as deletes, updates, inserts.
func (r *PostgresRouteRepo) CommitEdit(ctx context.Context, routeID uuid.UUID, fields types.RouteFields, diff StopDiff) error {
	start := time.Now()
	defer func() {
		metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &types.StoreOperationError{Op: "commitEdit.begin", Err: err}
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        UPDATE routes
        SET route_name = $2, overview = $3, total_distance = $4, estimated_time = $5, difficulty = $6, tips = $7
        WHERE id = $1`,
		routeID, fields.RouteName, fields.Overview, fields.TotalDistance, fields.EstimatedTime, fields.Difficulty, fields.Tips,
	)
	if err != nil {
		return &types.StoreOperationError{Op: "commitEdit.updateRoute", Err: err}
	}

	if len(diff.Deletes) > 0 {
		_, err = tx.Exec(ctx, `DELETE FROM stops WHERE route_id = $1 AND id = ANY($2)`, routeID, diff.Deletes)
		if err != nil {
			return &types.StoreOperationError{Op: "commitEdit.deleteStops", Err: err}
		}
	}

	for _, stop := range diff.Updates {
		_, err = tx.Exec(ctx, `
        UPDATE stops
        SET stop_number = $3, name = $4, description = $5, duration = $6, walk_to_next = $7, address = $8, latitude = $9, longitude = $10
        WHERE route_id = $1 AND id = $2`,
			routeID, stop.ID, stop.StopNumber, stop.Name, stop.Description, stop.Duration,
			stop.WalkToNext, stop.Address, stop.Latitude, stop.Longitude,
		)
		if err != nil {
			return &types.StoreOperationError{Op: "commitEdit.updateStop", Err: err}
		}
	}

	for _, stop := range diff.Inserts {
		_, err = tx.Exec(ctx, insertStopQuery,
			routeID, stop.StopNumber, stop.Name, stop.Description, stop.Duration,
			stop.WalkToNext, stop.Address, stop.Latitude, stop.Longitude,
		)
		if err != nil {
			return &types.StoreOperationError{Op: "commitEdit.insertStop", Err: err}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return &types.StoreOperationError{Op: "commitEdit.commit", Err: err}
	}

	metrics.Get().EditCommitsTotal.Add(ctx, 1)
	return nil
}

func (r *PostgresRouteRepo) GetRoute(ctx context.Context, routeID, userID uuid.UUID) (*types.Route, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT `+routeColumns+`
        FROM routes
        WHERE id = $1 AND user_id = $2`, routeID, userID)
	return scanRoute(row)
}

func (r *PostgresRouteRepo) GetRouteStops(ctx context.Context, routeID uuid.UUID) ([]types.Stop, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, route_id, stop_number, name, description, duration, walk_to_next, address, latitude, longitude
        FROM stops
        WHERE route_id = $1
        ORDER BY stop_number`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stops: %w", err)
	}
	defer rows.Close()

	var stops []types.Stop
	for rows.Next() {
		var s types.Stop
		err = rows.Scan(&s.ID, &s.RouteID, &s.StopNumber, &s.Name, &s.Description, &s.Duration,
			&s.WalkToNext, &s.Address, &s.Latitude, &s.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stop row: %w", err)
		}
		stops = append(stops, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stop rows: %w", err)
	}
	return stops, nil
}

func (r *PostgresRouteRepo) ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+routeColumns+`
        FROM routes
        WHERE user_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []types.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating route rows: %w", err)
	}
	return routes, nil
}

// GetRouteByShareToken resolves a route by its share token. Routes that are
// no longer shared are not discoverable even if the token is known.
func (r *PostgresRouteRepo) GetRouteByShareToken(ctx context.Context, token string) (*types.Route, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT `+routeColumns+`
        FROM routes
        WHERE share_token = $1 AND is_shared = TRUE`, token)
	return scanRoute(row)
}

func (r *PostgresRouteRepo) DeleteRoute(ctx context.Context, routeID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1 AND user_id = $2`, routeID, userID)
	if err != nil {
		return &types.StoreOperationError{Op: "deleteRoute", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// SetShared toggles sharing. The token is written on enable and kept on
// disable so re-sharing reuses the same link.
func (r *PostgresRouteRepo) SetShared(ctx context.Context, routeID, userID uuid.UUID, shared bool, token *string) error {
	var tag pgconn.CommandTag
	var err error
	if token != nil {
		tag, err = r.pool.Exec(ctx, `UPDATE routes SET is_shared = $3, share_token = $4 WHERE id = $1 AND user_id = $2`,
			routeID, userID, shared, *token)
	} else {
		tag, err = r.pool.Exec(ctx, `UPDATE routes SET is_shared = $3 WHERE id = $1 AND user_id = $2`,
			routeID, userID, shared)
	}
	if err != nil {
		return &types.StoreOperationError{Op: "setShared", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

func scanRoute(row pgx.Row) (*types.Route, error) {
	var route types.Route
	err := row.Scan(&route.ID, &route.UserID, &route.RouteName, &route.City, &route.TotalDistance,
		&route.EstimatedTime, &route.Difficulty, &route.Overview, &route.FitnessLevel, &route.Duration,
		&route.Interests, &route.Tips, &route.ShareToken, &route.IsShared, &route.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to scan route row: %w", err)
	}
	return &route, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
