package route

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRouteWithStops(n int) (types.Route, []types.Stop) {
	route := types.Route{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		RouteName: "Old Town Highlights",
		Overview:  "A loop through the medieval core.",
		Tips:      []string{"Wear comfortable shoes", "Bring water"},
	}
	stops := make([]types.Stop, n)
	for i := range stops {
		stops[i] = types.Stop{
			ID:         uuid.New(),
			RouteID:    route.ID,
			StopNumber: i + 1,
			Name:       string(rune('A' + i)),
		}
	}
	return route, stops
}

func assertContiguousOrdinals(t *testing.T, working []types.WorkingStop) {
	t.Helper()
	for i, ws := range working {
		assert.Equal(t, i+1, ws.StopNumber, "ordinal at position %d", i)
	}
}

func TestEditSession_DeleteRenumbers(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(5)
	m.Start(route.UserID, route, stops)

	// Delete the middle stop; former stops 4 and 5 become 3 and 4.
	state, err := m.Apply(route.ID, route.UserID, types.EditCommand{
		Op:     "delete_stop",
		StopID: stops[2].ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, state.Working, 4)
	assert.Equal(t, []string{"A", "B", "D", "E"}, workingNames(state.Working))
	assertContiguousOrdinals(t, state.Working)
}

func TestEditSession_MoveBoundariesAreNoOps(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(3)
	m.Start(route.UserID, route, stops)

	state, err := m.Apply(route.ID, route.UserID, types.EditCommand{Op: "move_up", StopID: stops[0].ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, workingNames(state.Working))

	state, err = m.Apply(route.ID, route.UserID, types.EditCommand{Op: "move_down", StopID: stops[2].ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, workingNames(state.Working))
	assertContiguousOrdinals(t, state.Working)
}

func TestEditSession_MoveSwapsAndRenumbers(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(4)
	m.Start(route.UserID, route, stops)

	state, err := m.Apply(route.ID, route.UserID, types.EditCommand{Op: "move_up", StopID: stops[2].ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, workingNames(state.Working))
	assertContiguousOrdinals(t, state.Working)
}

func TestEditSession_InsertThenMoveUp(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		m := NewEditSessionManager(testLogger())
		route, stops := testRouteWithStops(n)
		m.Start(route.UserID, route, stops)

		state, err := m.Apply(route.ID, route.UserID, types.EditCommand{Op: "insert_stop"})
		require.NoError(t, err)
		require.Len(t, state.Working, n+1)
		inserted := state.Working[n]
		assert.True(t, inserted.IsNew)
		assert.Equal(t, n+1, inserted.StopNumber)

		state, err = m.Apply(route.ID, route.UserID, types.EditCommand{Op: "move_up", StopID: inserted.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, inserted.ID, state.Working[n-1].ID)
		assertContiguousOrdinals(t, state.Working)
	}
}

func TestEditSession_UpdateStopAndRouteFields(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(2)
	m.Start(route.UserID, route, stops)

	_, err := m.Apply(route.ID, route.UserID, types.EditCommand{
		Op: "update_stop", StopID: stops[0].ID.String(), Field: "name", Value: "Astronomical Clock",
	})
	require.NoError(t, err)

	_, err = m.Apply(route.ID, route.UserID, types.EditCommand{
		Op: "update_route", Field: "route_name", Value: "Renamed Walk",
	})
	require.NoError(t, err)

	state, err := m.Apply(route.ID, route.UserID, types.EditCommand{
		Op: "update_tip", TipIndex: 1, Value: "Start early",
	})
	require.NoError(t, err)

	assert.Equal(t, "Astronomical Clock", state.Working[0].Name)
	assert.Equal(t, "Renamed Walk", state.Fields.RouteName)
	assert.Equal(t, []string{"Wear comfortable shoes", "Start early"}, state.Fields.Tips)
}

func TestEditSession_UnknownStopAndOp(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(2)
	m.Start(route.UserID, route, stops)

	_, err := m.Apply(route.ID, route.UserID, types.EditCommand{Op: "delete_stop", StopID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrUnknownStop)

	_, err = m.Apply(route.ID, route.UserID, types.EditCommand{Op: "teleport_stop", StopID: stops[0].ID.String()})
	assert.Error(t, err)
}

func TestEditSession_CancelDiscards(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(2)
	m.Start(route.UserID, route, stops)

	require.NoError(t, m.Cancel(route.ID, route.UserID))

	_, err := m.Get(route.ID, route.UserID)
	assert.ErrorIs(t, err, ErrNoEditSession)
}

func TestEditSession_SaveBusyFlag(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(3)
	m.Start(route.UserID, route, stops)

	_, _, _, err := m.BeginSave(route.ID, route.UserID)
	require.NoError(t, err)

	// Re-entrant saves and further mutation are rejected while in flight.
	_, _, _, err = m.BeginSave(route.ID, route.UserID)
	assert.ErrorIs(t, err, ErrSaveInFlight)
	_, err = m.Apply(route.ID, route.UserID, types.EditCommand{Op: "insert_stop"})
	assert.ErrorIs(t, err, ErrSaveInFlight)
	assert.ErrorIs(t, m.Cancel(route.ID, route.UserID), ErrSaveInFlight)
}

func TestEditSession_SaveFailureRetainsState(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(3)
	m.Start(route.UserID, route, stops)

	_, err := m.Apply(route.ID, route.UserID, types.EditCommand{
		Op: "delete_stop", StopID: stops[1].ID.String(),
	})
	require.NoError(t, err)

	_, _, _, err = m.BeginSave(route.ID, route.UserID)
	require.NoError(t, err)
	m.EndSave(route.ID, false)

	state, err := m.Get(route.ID, route.UserID)
	require.NoError(t, err)
	assert.False(t, state.Saving)
	assert.Equal(t, []string{"A", "C"}, workingNames(state.Working))
}

func TestEditSession_SaveSuccessDiscards(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(2)
	m.Start(route.UserID, route, stops)

	_, _, _, err := m.BeginSave(route.ID, route.UserID)
	require.NoError(t, err)
	m.EndSave(route.ID, true)

	_, err = m.Get(route.ID, route.UserID)
	assert.ErrorIs(t, err, ErrNoEditSession)
}

func TestEditSession_WrongUserCannotTouchSession(t *testing.T) {
	m := NewEditSessionManager(testLogger())
	route, stops := testRouteWithStops(2)
	m.Start(route.UserID, route, stops)

	_, err := m.Apply(route.ID, uuid.New(), types.EditCommand{Op: "insert_stop"})
	assert.ErrorIs(t, err, ErrNoEditSession)
}

func workingNames(working []types.WorkingStop) []string {
	names := make([]string, len(working))
	for i, ws := range working {
		names[i] = ws.Name
	}
	return names
}
