// This file implements the editing operations of the Engine. Every method
// takes the session lock, applies the change to the path graph and counts it
// towards the auto-save policy.
package engine

import (
	"fmt"
	"math"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/pathgraph"
)

// --- Path editing ---

// AddWaypoint appends a waypoint at pos, as a click on empty map does.
func (e *Engine) AddWaypoint(pos geo.Position) (WaypointInfo, error) {
	if err := pos.Validate(); err != nil {
		return WaypointInfo{}, e.fail("add_waypoint", fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	w := e.graph.AppendWaypoint(pos)
	e.markDirty("add_waypoint")
	return waypointInfo(w), nil
}

// SplitSegment inserts a waypoint at the midpoint of a segment.
func (e *Engine) SplitSegment(segmentID string) (WaypointInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.graph.SplitSegment(segmentID)
	if err != nil {
		return WaypointInfo{}, e.fail("split_segment", err)
	}
	e.markDirty("split_segment")
	return waypointInfo(w), nil
}

// ActivateAffordance splits a segment through its midpoint control. It fails
// with pathgraph.ErrNoAffordance when the control is not shown.
func (e *Engine) ActivateAffordance(segmentID string) (WaypointInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.graph.Segment(segmentID)
	if !ok {
		return WaypointInfo{}, e.fail("split_segment", fmt.Errorf("%w: segment %s", pathgraph.ErrNotFound, segmentID))
	}
	w, err := s.ActivateAffordance()
	if err != nil {
		return WaypointInfo{}, e.fail("split_segment", err)
	}
	e.markDirty("split_segment")
	return waypointInfo(w), nil
}

// DeleteWaypoint removes a waypoint by id.
func (e *Engine) DeleteWaypoint(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.graph.RemoveWaypoint(id) {
		return e.fail("delete_waypoint", fmt.Errorf("%w: waypoint %s", pathgraph.ErrNotFound, id))
	}
	e.markDirty("delete_waypoint")
	return nil
}

// DeleteSelected removes the selected waypoint. It reports false, and
// changes nothing, when no waypoint is selected.
func (e *Engine) DeleteSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.graph.DeleteSelected() {
		return false
	}
	e.markDirty("delete_waypoint")
	return true
}

// MoveWaypoint sets a waypoint's position, as dragging its marker does.
func (e *Engine) MoveWaypoint(id string, pos geo.Position) error {
	if err := pos.Validate(); err != nil {
		return e.fail("move_waypoint", fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.MoveWaypoint(id, pos); err != nil {
		return e.fail("move_waypoint", err)
	}
	e.markDirty("move_waypoint")
	return nil
}

// SetWaypointUsable changes a waypoint's usability and clears the selection.
func (e *Engine) SetWaypointUsable(id string, usable bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.SetWaypointUsable(id, usable); err != nil {
		return e.fail("set_usable", err)
	}
	e.markDirty("set_usable")
	return nil
}

// SetSelectedUsable changes the selected waypoint's usability. It reports
// false when nothing is selected.
func (e *Engine) SetSelectedUsable(usable bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.graph.SetSelectedUsable(usable) {
		return false
	}
	e.markDirty("set_usable")
	return true
}

// --- Selection and display ---

// SelectWaypoint toggles the selection of a waypoint, as a click on its
// marker does.
func (e *Engine) SelectWaypoint(id string) (WaypointInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.ToggleSelection(id); err != nil {
		return WaypointInfo{}, err
	}
	w, _ := e.graph.Waypoint(id)
	return waypointInfo(w), nil
}

// ClearSelection deselects any waypoint.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.ClearSelection()
}

// ToggleVisibility hides or shows the whole path and returns the new state.
func (e *Engine) ToggleVisibility() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.ToggleVisibility()
}

// SetVisible hides or shows the whole path.
func (e *Engine) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if visible {
		e.graph.Show()
	} else {
		e.graph.Hide()
	}
}

type zoomSetter interface {
	SetZoom(z float64)
}

// SetZoom changes the Surface zoom and recomputes segment visuals.
func (e *Engine) SetZoom(z float64) error {
	if math.IsNaN(z) || z < 0 || z > 30 {
		return fmt.Errorf("%w: zoom %v", ErrInvalidArgument, z)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	zs, ok := e.graph.Surface().(zoomSetter)
	if !ok {
		return ErrZoomUnsupported
	}
	zs.SetZoom(z)
	e.graph.RefreshGeometry()
	return nil
}

// SetAffordanceThreshold changes the pixel length above which segments
// offer a midpoint insert control.
func (e *Engine) SetAffordanceThreshold(px float64) error {
	if math.IsNaN(px) || px <= 0 {
		return fmt.Errorf("%w: affordance threshold %v", ErrInvalidArgument, px)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.SetAffordanceThreshold(px)
	return nil
}

// --- Inspection and restore ---

// Path returns a copy of the whole path.
func (e *Engine) Path() PathInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pathInfo(e.graph)
}

// Waypoint returns one waypoint.
func (e *Engine) Waypoint(id string) (WaypointInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.graph.Waypoint(id)
	if !ok {
		return WaypointInfo{}, fmt.Errorf("%w: waypoint %s", pathgraph.ErrNotFound, id)
	}
	return waypointInfo(w), nil
}

// Snapshot returns the serialized path.
func (e *Engine) Snapshot() pathgraph.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Serialize()
}

// Restore replaces the path with snap. On error the path is left empty.
func (e *Engine) Restore(snap pathgraph.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.graph.Deserialize(snap)
	if err != nil {
		e.updateGauges()
		return e.fail("restore", err)
	}
	e.markDirty("restore")
	return nil
}

// Validate checks the chain invariants of the current path.
func (e *Engine) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Validate()
}
