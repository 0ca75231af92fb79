// Package route owns persisted walking routes: saving generated itineraries,
// staging in-place edits, committing them and sharing routes by token.
package route

import (
	"github.com/google/uuid"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

// StopDiff is the minimal write set reconciling a working stop sequence
// against the baseline loaded from the store. The three sets are disjoint by
// identifier.
type StopDiff struct {
	Deletes []uuid.UUID
	Updates []types.Stop
	Inserts []types.Stop
}

// ComputeStopDiff diffs by store identifier. Baseline entries missing from
// working are deletes. Working entries flagged new are inserts. Everything
// else is an update. Ordinals on updates and inserts are always re-derived
// from list position, never taken from staged values.
func ComputeStopDiff(baseline []types.Stop, working []types.WorkingStop) StopDiff {
	var diff StopDiff

	present := make(map[uuid.UUID]bool, len(working))
	for _, ws := range working {
		if !ws.IsNew {
			present[ws.ID] = true
		}
	}
	for _, b := range baseline {
		if !present[b.ID] {
			diff.Deletes = append(diff.Deletes, b.ID)
		}
	}

	for i, ws := range working {
		stop := ws.Stop
		stop.StopNumber = i + 1
		if ws.IsNew {
			diff.Inserts = append(diff.Inserts, stop)
		} else {
			diff.Updates = append(diff.Updates, stop)
		}
	}
	return diff
}
