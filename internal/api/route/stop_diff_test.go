package route

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

func TestComputeStopDiff_DeleteAndReorder(t *testing.T) {
	baseline := make([]types.Stop, 4)
	for i := range baseline {
		baseline[i] = types.Stop{ID: uuid.New(), StopNumber: i + 1, Name: string(rune('A' + i))}
	}

	// Working state: B removed, D moved ahead of C.
	working := []types.WorkingStop{
		{Stop: baseline[0]},
		{Stop: baseline[3]},
		{Stop: baseline[2]},
	}

	diff := ComputeStopDiff(baseline, working)

	require.Len(t, diff.Deletes, 1)
	assert.Equal(t, baseline[1].ID, diff.Deletes[0])
	assert.Empty(t, diff.Inserts)

	require.Len(t, diff.Updates, 3)
	assert.Equal(t, baseline[0].ID, diff.Updates[0].ID)
	assert.Equal(t, baseline[3].ID, diff.Updates[1].ID)
	assert.Equal(t, baseline[2].ID, diff.Updates[2].ID)
	for i, u := range diff.Updates {
		assert.Equal(t, i+1, u.StopNumber)
	}
}

func TestComputeStopDiff_NewStopsBecomeInserts(t *testing.T) {
	baseline := []types.Stop{
		{ID: uuid.New(), StopNumber: 1, Name: "A"},
	}
	fresh := types.WorkingStop{
		Stop:  types.Stop{ID: uuid.New(), Name: "New Stop", StopNumber: 99},
		IsNew: true,
	}
	working := []types.WorkingStop{fresh, {Stop: baseline[0]}}

	diff := ComputeStopDiff(baseline, working)

	assert.Empty(t, diff.Deletes)
	require.Len(t, diff.Inserts, 1)
	// Staged ordinal is ignored; position wins.
	assert.Equal(t, 1, diff.Inserts[0].StopNumber)
	require.Len(t, diff.Updates, 1)
	assert.Equal(t, 2, diff.Updates[0].StopNumber)
}

func TestComputeStopDiff_EmptyWorkingDeletesEverything(t *testing.T) {
	baseline := []types.Stop{
		{ID: uuid.New(), StopNumber: 1},
		{ID: uuid.New(), StopNumber: 2},
	}
	diff := ComputeStopDiff(baseline, nil)

	assert.Len(t, diff.Deletes, 2)
	assert.Empty(t, diff.Updates)
	assert.Empty(t, diff.Inserts)
}
