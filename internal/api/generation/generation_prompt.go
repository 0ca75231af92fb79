// Package generation compiles walking-tour prompts, calls the completion
// backend and normalizes the response into a structured itinerary.
package generation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wanderwise/wanderwise-api/internal/types"
)

const promptTemplate = `You are an expert local guide creating a perfect walking tour. Generate a detailed walking route for the following request:

City: %s
Interests: %s
Fitness Level: %s
Duration: %s hours

Create a walking route that:
1. Starts and ends at convenient, accessible locations
2. Flows naturally from point to point
3. Includes %s interesting stops
4. Matches the fitness level (easy = flat, short distances; moderate = some hills, reasonable distances; challenging = hills ok, longer distances)
5. Focuses on the specified interests

CRITICAL: You must respond with ONLY valid JSON. Do not include any text outside the JSON structure, including markdown code blocks or backticks.

Format your response as a JSON object with this EXACT structure:
{
  "routeName": "A catchy name for this route",
  "totalDistance": "X.X km",
  "estimatedTime": "X hours X minutes",
  "difficulty": "Easy/Moderate/Challenging",
  "overview": "A brief 2-3 sentences overview of what makes this route special",
  "stops": [
    {
      "number": 1,
      "name": "Stop name",
      "description": "2-3 sentences about this location and why it's interesting",
      "duration": "X minutes",
      "walkToNext": "X minutes walk",
      "address": "Full street address of this location",
      "latitude": 50.0875,
      "longitude": 14.4213
    }
  ],
  "tips": [
    "Practical tip 1",
    "Practical tip 2",
    "Practical tip 3"
  ]
}
IMPORTANT: Include accurate latitude and longitude coordinates for each stop. Use real coordinates from %s.

DO NOT OUTPUT ANYTHING OTHER THAN VALID JSON. Your entire response must be a single JSON object.`

// ValidateRequest checks the user-supplied generation inputs before any
// network call is made.
func ValidateRequest(req types.GenerationRequest) error {
	if strings.TrimSpace(req.City) == "" {
		return &types.ValidationError{Field: "city", Message: "city is required"}
	}
	if strings.TrimSpace(req.Interests) == "" {
		return &types.ValidationError{Field: "interests", Message: "interests are required"}
	}
	return nil
}

// CompilePrompt renders the generation request into the completion prompt.
// Tours of three hours or longer ask for 6-8 stops, shorter ones for 4-6.
func CompilePrompt(req types.GenerationRequest) string {
	stopRange := "4-6"
	if req.Duration >= 3 {
		stopRange = "6-8"
	}
	duration := strconv.FormatFloat(req.Duration, 'f', -1, 64)
	return fmt.Sprintf(promptTemplate, req.City, req.Interests, req.Fitness, duration, stopRange, req.City)
}
