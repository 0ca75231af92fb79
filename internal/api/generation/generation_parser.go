package generation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

// NormalizeCompletion turns raw completion text into a validated itinerary.
// Markdown code fences are stripped first since models wrap JSON in them
// despite instructions. Stop numbers are re-derived from list position; the
// numbers the model emitted are never trusted.
func NormalizeCompletion(raw string) (*types.Itinerary, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var itinerary types.Itinerary
	if err := json.Unmarshal([]byte(cleaned), &itinerary); err != nil {
		return nil, &types.MalformedCompletionError{Raw: raw, Err: fmt.Errorf("response is not valid JSON: %w", err)}
	}

	if itinerary.RouteName == "" {
		return nil, &types.MalformedCompletionError{Raw: raw, Err: fmt.Errorf("routeName is missing")}
	}
	if len(itinerary.Stops) == 0 {
		return nil, &types.MalformedCompletionError{Raw: raw, Err: fmt.Errorf("itinerary has no stops")}
	}

	for i := range itinerary.Stops {
		stop := &itinerary.Stops[i]
		if stop.Name == "" {
			return nil, &types.MalformedCompletionError{Raw: raw, Err: fmt.Errorf("stop at position %d has no name", i+1)}
		}
		stop.Number = i + 1
		stop.Latitude = sanitizeCoordinate(stop.Latitude, 90)
		stop.Longitude = sanitizeCoordinate(stop.Longitude, 180)
		// A marker needs both coordinates; half a pair is useless.
		if stop.Latitude == nil || stop.Longitude == nil {
			stop.Latitude, stop.Longitude = nil, nil
		}
	}
	if itinerary.Tips == nil {
		itinerary.Tips = []string{}
	}
	return &itinerary, nil
}

func sanitizeCoordinate(v *float64, limit float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || math.Abs(*v) > limit {
		return nil
	}
	return v
}
