package server

import (
	"github.com/sanonone/waypath/pkg/geo"
)

// WaypointRequest is the body of POST /path/waypoints and
// PUT /path/waypoints/{id}/position.
type WaypointRequest struct {
	Position *geo.Position `json:"position" validate:"required"`
}

// UsableRequest is the body of the usable toggles.
type UsableRequest struct {
	Usable *bool `json:"usable" validate:"required"`
}

// VisibilityRequest is the body of PUT /path/visibility.
type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// ZoomRequest is the body of PUT /path/zoom.
type ZoomRequest struct {
	Zoom *float64 `json:"zoom" validate:"required,gte=0,lte=30"`
}

// ChangedResponse reports whether a selection action did anything.
type ChangedResponse struct {
	Changed bool `json:"changed"`
}

type VisibilityResponse struct {
	Visible bool `json:"visible"`
}

type ZoomResponse struct {
	Zoom float64 `json:"zoom"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
