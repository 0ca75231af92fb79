package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRequest carries the four user-supplied fields a walking-tour
// generation is compiled from. Transient; one per generation call.
type GenerationRequest struct {
	City      string  `json:"city" validate:"required"`
	Interests string  `json:"interests" validate:"required"`
	Fitness   string  `json:"fitness" validate:"omitempty,oneof=easy moderate challenging"`
	Duration  float64 `json:"duration" validate:"gt=0"`
}

// Itinerary is the structured walking route as the completion service
// returns it, after normalization. Stop numbers are always the contiguous
// 1-based sequence of list positions.
type Itinerary struct {
	RouteName     string          `json:"routeName"`
	TotalDistance string          `json:"totalDistance"`
	EstimatedTime string          `json:"estimatedTime"`
	Difficulty    string          `json:"difficulty"`
	Overview      string          `json:"overview"`
	Stops         []ItineraryStop `json:"stops"`
	Tips          []string        `json:"tips"`
}

// ItineraryStop is one point of interest within a generated itinerary.
// WalkToNext is empty on the last stop. Coordinates are optional; a map
// marker needs both to be present.
type ItineraryStop struct {
	Number      int      `json:"number"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	WalkToNext  string   `json:"walkToNext,omitempty"`
	Address     string   `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Route is a persisted itinerary plus provenance (the generation inputs it
// came from) and sharing state.
type Route struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	RouteName     string    `json:"route_name"`
	City          string    `json:"city"`
	TotalDistance string    `json:"total_distance"`
	EstimatedTime string    `json:"estimated_time"`
	Difficulty    string    `json:"difficulty"`
	Overview      string    `json:"overview"`
	FitnessLevel  string    `json:"fitness_level"`
	Duration      float64   `json:"duration"`
	Interests     string    `json:"interests"`
	Tips          []string  `json:"tips"`
	ShareToken    *string   `json:"share_token,omitempty"`
	IsShared      bool      `json:"is_shared"`
	CreatedAt     time.Time `json:"created_at"`
}

// Stop is a persisted stop row. StopNumber mirrors list position; the store
// is the sole owner of the row identity.
type Stop struct {
	ID          uuid.UUID `json:"id"`
	RouteID     uuid.UUID `json:"route_id"`
	StopNumber  int       `json:"stop_number"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	WalkToNext  *string   `json:"walk_to_next,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
}

// WorkingStop is a stop inside an edit session's working sequence. New
// entries carry a locally generated uuid until the store assigns a real one.
type WorkingStop struct {
	Stop
	IsNew bool `json:"is_new,omitempty"`
}

// RouteFields are the route-level editable fields staged during an edit.
type RouteFields struct {
	RouteName     string   `json:"route_name"`
	Overview      string   `json:"overview"`
	TotalDistance string   `json:"total_distance"`
	EstimatedTime string   `json:"estimated_time"`
	Difficulty    string   `json:"difficulty"`
	Tips          []string `json:"tips"`
}

// RouteWithStops combines a route row with its ordered stop rows.
type RouteWithStops struct {
	Route Route  `json:"route"`
	Stops []Stop `json:"stops"`
}

// SaveRouteRequest persists a freshly generated itinerary together with the
// request it was generated from.
type SaveRouteRequest struct {
	Itinerary Itinerary         `json:"itinerary"`
	Request   GenerationRequest `json:"request"`
}

// EditCommand is one mutation against an edit session's working state.
type EditCommand struct {
	Op       string   `json:"op" validate:"required,oneof=update_stop delete_stop move_up move_down insert_stop update_route update_tip"`
	StopID   string   `json:"stop_id,omitempty"`
	Field    string   `json:"field,omitempty"`
	Value    string   `json:"value,omitempty"`
	TipIndex int      `json:"tip_index,omitempty"`
	Tips     []string `json:"tips,omitempty"`
}

// EditSessionState is the wire representation of a staged edit.
type EditSessionState struct {
	RouteID uuid.UUID     `json:"route_id"`
	Fields  RouteFields   `json:"fields"`
	Working []WorkingStop `json:"working"`
	Saving  bool          `json:"saving"`
}

// ShareResponse returns the opaque token a shared route is reachable under.
type ShareResponse struct {
	ShareToken string `json:"share_token"`
	IsShared   bool   `json:"is_shared"`
}
