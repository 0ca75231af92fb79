package route

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

type MockRouteRepo struct {
	mock.Mock
}

var _ RouteRepo = (*MockRouteRepo)(nil)

func (m *MockRouteRepo) CreateRoute(ctx context.Context, userID uuid.UUID, itinerary types.Itinerary, req types.GenerationRequest) (*types.Route, error) {
	args := m.Called(ctx, userID, itinerary, req)
	if r := args.Get(0); r != nil {
		return r.(*types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteRepo) CommitEdit(ctx context.Context, routeID uuid.UUID, fields types.RouteFields, diff StopDiff) error {
	args := m.Called(ctx, routeID, fields, diff)
	return args.Error(0)
}

func (m *MockRouteRepo) GetRoute(ctx context.Context, routeID, userID uuid.UUID) (*types.Route, error) {
	args := m.Called(ctx, routeID, userID)
	if r := args.Get(0); r != nil {
		return r.(*types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteRepo) GetRouteStops(ctx context.Context, routeID uuid.UUID) ([]types.Stop, error) {
	args := m.Called(ctx, routeID)
	if r := args.Get(0); r != nil {
		return r.([]types.Stop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteRepo) ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteRepo) GetRouteByShareToken(ctx context.Context, token string) (*types.Route, error) {
	args := m.Called(ctx, token)
	if r := args.Get(0); r != nil {
		return r.(*types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRouteRepo) DeleteRoute(ctx context.Context, routeID, userID uuid.UUID) error {
	args := m.Called(ctx, routeID, userID)
	return args.Error(0)
}

func (m *MockRouteRepo) SetShared(ctx context.Context, routeID, userID uuid.UUID, shared bool, token *string) error {
	args := m.Called(ctx, routeID, userID, shared, token)
	return args.Error(0)
}

func pragueRoute(userID uuid.UUID, n int) (*types.Route, []types.Stop) {
	route := &types.Route{
		ID:        uuid.New(),
		UserID:    userID,
		RouteName: "Prague History Walk",
		City:      "Prague",
		Interests: "history",
		Tips:      []string{"Wear comfortable shoes"},
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

// Delete stop 3 of 5 and save: exactly one delete, four renumbered updates in
// the original relative order, zero inserts.
func TestSaveEdit_DeleteMiddleStop(t *testing.T) {
	repo := new(MockRouteRepo)
	svc := NewRouteService(repo, testLogger())
	userID := uuid.New()
	route, stops := pragueRoute(userID, 5)

	repo.On("GetRoute", mock.Anything, route.ID, userID).Return(route, nil)
	repo.On("GetRouteStops", mock.Anything, route.ID).Return(stops, nil)

	_, err := svc.StartEdit(context.Background(), route.ID, userID)
	require.NoError(t, err)

	_, err = svc.ApplyEdit(context.Background(), route.ID, userID, types.EditCommand{
		Op: "delete_stop", StopID: stops[2].ID.String(),
	})
	require.NoError(t, err)

	var captured StopDiff
	repo.On("CommitEdit", mock.Anything, route.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(3).(StopDiff)
		}).
		Return(nil)

	_, err = svc.SaveEdit(context.Background(), route.ID, userID)
	require.NoError(t, err)

	require.Len(t, captured.Deletes, 1)
	assert.Equal(t, stops[2].ID, captured.Deletes[0])
	assert.Empty(t, captured.Inserts)
	require.Len(t, captured.Updates, 4)
	wantOrder := []uuid.UUID{stops[0].ID, stops[1].ID, stops[3].ID, stops[4].ID}
	for i, u := range captured.Updates {
		assert.Equal(t, wantOrder[i], u.ID)
		assert.Equal(t, i+1, u.StopNumber)
	}

	// Success discards the session.
	_, err = svc.ApplyEdit(context.Background(), route.ID, userID, types.EditCommand{Op: "insert_stop"})
	assert.ErrorIs(t, err, ErrNoEditSession)
}

func TestSaveEdit_CommitFailureKeepsSession(t *testing.T) {
	repo := new(MockRouteRepo)
	svc := NewRouteService(repo, testLogger())
	userID := uuid.New()
	route, stops := pragueRoute(userID, 3)

	repo.On("GetRoute", mock.Anything, route.ID, userID).Return(route, nil)
	repo.On("GetRouteStops", mock.Anything, route.ID).Return(stops, nil)
	repo.On("CommitEdit", mock.Anything, route.ID, mock.Anything, mock.Anything).
		Return(&types.StoreOperationError{Op: "commitEdit.updateStop", Err: assert.AnError})

	_, err := svc.StartEdit(context.Background(), route.ID, userID)
	require.NoError(t, err)

	_, err = svc.SaveEdit(context.Background(), route.ID, userID)
	var storeErr *types.StoreOperationError
	require.ErrorAs(t, err, &storeErr)

	// The session survives for retry or cancel.
	state, err := svc.ApplyEdit(context.Background(), route.ID, userID, types.EditCommand{Op: "insert_stop"})
	require.NoError(t, err)
	assert.Len(t, state.Working, 4)
}

func TestShareRoute_MintsTokenOnceAndReusesIt(t *testing.T) {
	repo := new(MockRouteRepo)
	svc := NewRouteService(repo, testLogger())
	userID := uuid.New()
	route, _ := pragueRoute(userID, 2)

	repo.On("GetRoute", mock.Anything, route.ID, userID).Return(route, nil).Once()
	var minted string
	repo.On("SetShared", mock.Anything, route.ID, userID, true, mock.Anything).
		Run(func(args mock.Arguments) {
			minted = *args.Get(4).(*string)
		}).
		Return(nil)

	share, err := svc.ShareRoute(context.Background(), route.ID, userID)
	require.NoError(t, err)
	assert.True(t, share.IsShared)
	assert.Equal(t, minted, share.ShareToken)
	_, err = uuid.Parse(share.ShareToken)
	assert.NoError(t, err, "share token should be an opaque uuid")

	// Second share finds the stored token and keeps it.
	withToken := *route
	withToken.ShareToken = &minted
	repo.On("GetRoute", mock.Anything, route.ID, userID).Return(&withToken, nil)

	again, err := svc.ShareRoute(context.Background(), route.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, minted, again.ShareToken)
}

func TestGetSharedRoute_SecondLookupHitsCache(t *testing.T) {
	repo := new(MockRouteRepo)
	svc := NewRouteService(repo, testLogger())
	userID := uuid.New()
	route, stops := pragueRoute(userID, 2)
	token := uuid.NewString()
	route.ShareToken = &token
	route.IsShared = true

	repo.On("GetRouteByShareToken", mock.Anything, token).Return(route, nil).Once()
	repo.On("GetRouteStops", mock.Anything, route.ID).Return(stops, nil).Once()

	first, err := svc.GetSharedRoute(context.Background(), token)
	require.NoError(t, err)
	second, err := svc.GetSharedRoute(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetRouteByShareToken", 1)
}

func TestCopySharedRoute_AppendsCopySuffix(t *testing.T) {
	repo := new(MockRouteRepo)
	svc := NewRouteService(repo, testLogger())
	owner := uuid.New()
	copier := uuid.New()
	src, srcStops := pragueRoute(owner, 3)
	token := uuid.NewString()
	src.ShareToken = &token
	src.IsShared = true

	copied := &types.Route{ID: uuid.New(), UserID: copier, RouteName: src.RouteName + " (Copy)", City: src.City}

	repo.On("GetRouteByShareToken", mock.Anything, token).Return(src, nil)
	repo.On("GetRouteStops", mock.Anything, src.ID).Return(srcStops, nil)
	repo.On("CreateRoute", mock.Anything, copier, mock.MatchedBy(func(it types.Itinerary) bool {
		return it.RouteName == "Prague History Walk (Copy)" && len(it.Stops) == 3
	}), mock.Anything).Return(copied, nil)
	repo.On("GetRouteStops", mock.Anything, copied.ID).Return([]types.Stop{}, nil)

	result, err := svc.CopySharedRoute(context.Background(), token, copier)
	require.NoError(t, err)
	assert.Equal(t, copier, result.Route.UserID)
	assert.Equal(t, "Prague History Walk (Copy)", result.Route.RouteName)
}
