package engine

import (
	"fmt"

	"github.com/sanonone/waypath/pkg/geo"
)

// Intent actions sent by a rendering client.
const (
	ActionMapClick          = "map_click"
	ActionMarkerClick       = "marker_click"
	ActionMarkerDrag        = "marker_drag"
	ActionAffordanceClick   = "affordance_click"
	ActionDeleteSelected    = "delete_selected"
	ActionSetSelectedUsable = "set_selected_usable"
	ActionToggleVisibility  = "toggle_visibility"
	ActionZoom              = "zoom"
)

// Intent is a user gesture reported by a client surface.
type Intent struct {
	Action   string        `json:"action"`
	ID       string        `json:"id,omitempty"`
	Position *geo.Position `json:"position,omitempty"`
	Usable   *bool         `json:"usable,omitempty"`
	Zoom     *float64      `json:"zoom,omitempty"`
}

// Apply performs the operation an Intent stands for and returns its result
// (a WaypointInfo, a bool, or nil).
func (e *Engine) Apply(in Intent) (any, error) {
	switch in.Action {
	case ActionMapClick:
		if in.Position == nil {
			return nil, missing(in.Action, "position")
		}
		return e.AddWaypoint(*in.Position)

	case ActionMarkerClick:
		if in.ID == "" {
			return nil, missing(in.Action, "id")
		}
		return e.SelectWaypoint(in.ID)

	case ActionMarkerDrag:
		if in.ID == "" || in.Position == nil {
			return nil, missing(in.Action, "id and position")
		}
		return nil, e.MoveWaypoint(in.ID, *in.Position)

	case ActionAffordanceClick:
		if in.ID == "" {
			return nil, missing(in.Action, "id")
		}
		return e.ActivateAffordance(in.ID)

	case ActionDeleteSelected:
		return e.DeleteSelected(), nil

	case ActionSetSelectedUsable:
		if in.Usable == nil {
			return nil, missing(in.Action, "usable")
		}
		return e.SetSelectedUsable(*in.Usable), nil

	case ActionToggleVisibility:
		return e.ToggleVisibility(), nil

	case ActionZoom:
		if in.Zoom == nil {
			return nil, missing(in.Action, "zoom")
		}
		return nil, e.SetZoom(*in.Zoom)

	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, in.Action)
	}
}

func missing(action, field string) error {
	return fmt.Errorf("%w: %s requires %s", ErrInvalidArgument, action, field)
}
