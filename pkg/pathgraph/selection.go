package pathgraph

import "github.com/sanonone/waypath/pkg/observable"

// Selected returns the selected waypoint, if any.
func (g *Graph) Selected() (*Waypoint, bool) {
	id := g.selected.Get()
	if id == "" {
		return nil, false
	}
	return g.Waypoint(id)
}

// SelectedID returns the selected waypoint id, or "".
func (g *Graph) SelectedID() string { return g.selected.Get() }

// SubscribeSelection observes selection changes. "" means nothing is selected.
func (g *Graph) SubscribeSelection(fn func(id string)) observable.Disposer {
	return g.selected.Subscribe(fn)
}

// Select makes id the selected waypoint.
func (g *Graph) Select(id string) error {
	if _, err := g.lookup(id); err != nil {
		return err
	}
	g.selected.Set(id)
	return nil
}

// ToggleSelection selects id, or clears the selection if id is already
// selected. This is what a click on a marker does.
func (g *Graph) ToggleSelection(id string) error {
	if _, err := g.lookup(id); err != nil {
		return err
	}
	if g.selected.Get() == id {
		g.selected.Set("")
		return nil
	}
	g.selected.Set(id)
	return nil
}

// ClearSelection deselects any waypoint.
func (g *Graph) ClearSelection() {
	g.selected.Set("")
}

// DeleteSelected removes the selected waypoint. It reports false when
// nothing is selected.
func (g *Graph) DeleteSelected() bool {
	id := g.selected.Get()
	if id == "" {
		return false
	}
	return g.RemoveWaypoint(id)
}

// SetSelectedUsable changes the usability of the selected waypoint and
// clears the selection. It reports false when nothing is selected.
func (g *Graph) SetSelectedUsable(usable bool) bool {
	id := g.selected.Get()
	if id == "" {
		return false
	}
	return g.SetWaypointUsable(id, usable) == nil
}
