package route

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

var (
	ErrNoEditSession = errors.New("no edit session for this route")
	ErrSaveInFlight  = errors.New("a save for this edit session is already in flight")
	ErrUnknownStop   = errors.New("stop not found in edit session")
)

// editSession stages one user's in-place edit of a route. baseline is the
// stop sequence as loaded at entry; working is the mutable copy the commands
// below operate on.
type editSession struct {
	routeID  uuid.UUID
	userID   uuid.UUID
	fields   types.RouteFields
	baseline []types.Stop
	working  []types.WorkingStop
	saving   bool
}

// EditSessionManager keeps the active edit sessions, one per route. Sessions
// live in process memory only; a restart discards them, which is acceptable
// since nothing is written until save.
type EditSessionManager struct {
	logger   *slog.Logger
	mu       sync.Mutex
	sessions map[uuid.UUID]*editSession
}

func NewEditSessionManager(logger *slog.Logger) *EditSessionManager {
	return &EditSessionManager{
		logger:   logger,
		sessions: make(map[uuid.UUID]*editSession),
	}
}

// Start snapshots the route into a fresh session, replacing any previous
// session for the same route.
func (m *EditSessionManager) Start(userID uuid.UUID, route types.Route, stops []types.Stop) *types.EditSessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	working := make([]types.WorkingStop, len(stops))
	for i, s := range stops {
		working[i] = types.WorkingStop{Stop: s}
	}
	baseline := make([]types.Stop, len(stops))
	copy(baseline, stops)

	s := &editSession{
		routeID: route.ID,
		userID:  userID,
		fields: types.RouteFields{
			RouteName:     route.RouteName,
			Overview:      route.Overview,
			TotalDistance: route.TotalDistance,
			EstimatedTime: route.EstimatedTime,
			Difficulty:    route.Difficulty,
			Tips:          append([]string(nil), route.Tips...),
		},
		baseline: baseline,
		working:  working,
	}
	m.sessions[route.ID] = s
	m.logger.Debug("Edit session started",
		slog.String("route_id", route.ID.String()),
		slog.Int("stops", len(stops)),
	)
	return s.state()
}

// Apply runs one edit command against the session's working state and returns
// the updated snapshot. Ordinals are recomputed across the whole working
// sequence before returning.
func (m *EditSessionManager) Apply(routeID, userID uuid.UUID, cmd types.EditCommand) (*types.EditSessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(routeID, userID)
	if err != nil {
		return nil, err
	}
	if s.saving {
		return nil, ErrSaveInFlight
	}

	switch cmd.Op {
	case "update_stop":
		if err := s.updateStop(cmd); err != nil {
			return nil, err
		}
	case "delete_stop":
		if err := s.deleteStop(cmd.StopID); err != nil {
			return nil, err
		}
	case "move_up":
		if err := s.moveStop(cmd.StopID, -1); err != nil {
			return nil, err
		}
	case "move_down":
		if err := s.moveStop(cmd.StopID, 1); err != nil {
			return nil, err
		}
	case "insert_stop":
		s.insertStop()
	case "update_route":
		if err := s.updateRouteField(cmd); err != nil {
			return nil, err
		}
	case "update_tip":
		if err := s.updateTip(cmd); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown edit op %q", cmd.Op)
	}

	s.renumber()
	return s.state(), nil
}

// Cancel discards the session without touching the store.
func (m *EditSessionManager) Cancel(routeID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(routeID, userID)
	if err != nil {
		return err
	}
	if s.saving {
		return ErrSaveInFlight
	}
	delete(m.sessions, routeID)
	return nil
}

// Get returns the current session snapshot.
func (m *EditSessionManager) Get(routeID, userID uuid.UUID) (*types.EditSessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(routeID, userID)
	if err != nil {
		return nil, err
	}
	return s.state(), nil
}

// BeginSave marks the session busy and hands back the data the commit needs.
// A second save while one is in flight is rejected.
func (m *EditSessionManager) BeginSave(routeID, userID uuid.UUID) (types.RouteFields, []types.Stop, []types.WorkingStop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(routeID, userID)
	if err != nil {
		return types.RouteFields{}, nil, nil, err
	}
	if s.saving {
		return types.RouteFields{}, nil, nil, ErrSaveInFlight
	}
	s.saving = true

	baseline := make([]types.Stop, len(s.baseline))
	copy(baseline, s.baseline)
	working := make([]types.WorkingStop, len(s.working))
	copy(working, s.working)
	return s.fields, baseline, working, nil
}

// EndSave finishes a save attempt. Success discards the session; failure
// retains it unchanged so the user can retry or cancel.
func (m *EditSessionManager) EndSave(routeID uuid.UUID, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[routeID]
	if !ok {
		return
	}
	if success {
		delete(m.sessions, routeID)
		return
	}
	s.saving = false
}

func (m *EditSessionManager) lookup(routeID, userID uuid.UUID) (*editSession, error) {
	s, ok := m.sessions[routeID]
	if !ok || s.userID != userID {
		return nil, ErrNoEditSession
	}
	return s, nil
}

func (s *editSession) state() *types.EditSessionState {
	working := make([]types.WorkingStop, len(s.working))
	copy(working, s.working)
	return &types.EditSessionState{
		RouteID: s.routeID,
		Fields:  s.fields,
		Working: working,
		Saving:  s.saving,
	}
}

func (s *editSession) indexOf(stopID string) (int, error) {
	id, err := uuid.Parse(stopID)
	if err != nil {
		return 0, fmt.Errorf("invalid stop id %q: %w", stopID, err)
	}
	for i := range s.working {
		if s.working[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrUnknownStop
}

func (s *editSession) updateStop(cmd types.EditCommand) error {
	i, err := s.indexOf(cmd.StopID)
	if err != nil {
		return err
	}
	stop := &s.working[i]
	switch cmd.Field {
	case "name":
		stop.Name = cmd.Value
	case "description":
		stop.Description = cmd.Value
	case "duration":
		stop.Duration = cmd.Value
	case "walk_to_next":
		stop.WalkToNext = optionalString(cmd.Value)
	case "address":
		stop.Address = optionalString(cmd.Value)
	case "latitude":
		return setCoordinate(&stop.Latitude, cmd.Value, 90)
	case "longitude":
		return setCoordinate(&stop.Longitude, cmd.Value, 180)
	default:
		return fmt.Errorf("unknown stop field %q", cmd.Field)
	}
	return nil
}

func (s *editSession) deleteStop(stopID string) error {
	i, err := s.indexOf(stopID)
	if err != nil {
		return err
	}
	s.working = append(s.working[:i], s.working[i+1:]...)
	return nil
}

// moveStop swaps the entry with its neighbour; at either boundary the move is
// a no-op rather than an error.
func (s *editSession) moveStop(stopID string, delta int) error {
	i, err := s.indexOf(stopID)
	if err != nil {
		return err
	}
	j := i + delta
	if j < 0 || j >= len(s.working) {
		return nil
	}
	s.working[i], s.working[j] = s.working[j], s.working[i]
	return nil
}

func (s *editSession) insertStop() {
	s.working = append(s.working, types.WorkingStop{
		Stop: types.Stop{
			ID:      uuid.New(),
			RouteID: s.routeID,
			Name:    "New Stop",
		},
		IsNew: true,
	})
}

func (s *editSession) updateRouteField(cmd types.EditCommand) error {
	switch cmd.Field {
	case "route_name":
		s.fields.RouteName = cmd.Value
	case "overview":
		s.fields.Overview = cmd.Value
	case "total_distance":
		s.fields.TotalDistance = cmd.Value
	case "estimated_time":
		s.fields.EstimatedTime = cmd.Value
	case "difficulty":
		s.fields.Difficulty = cmd.Value
	default:
		return fmt.Errorf("unknown route field %q", cmd.Field)
	}
	return nil
}

func (s *editSession) updateTip(cmd types.EditCommand) error {
	if cmd.Tips != nil {
		s.fields.Tips = append([]string(nil), cmd.Tips...)
		return nil
	}
	if cmd.TipIndex < 0 || cmd.TipIndex >= len(s.fields.Tips) {
		return fmt.Errorf("tip index %d out of range", cmd.TipIndex)
	}
	s.fields.Tips[cmd.TipIndex] = cmd.Value
	return nil
}

func (s *editSession) renumber() {
	for i := range s.working {
		s.working[i].StopNumber = i + 1
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func setCoordinate(dst **float64, value string, limit float64) error {
	if value == "" {
		*dst = nil
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", value, err)
	}
	if f < -limit || f > limit {
		return fmt.Errorf("coordinate %g out of range", f)
	}
	*dst = &f
	return nil
}
