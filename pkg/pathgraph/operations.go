package pathgraph

import (
	"fmt"

	"github.com/sanonone/waypath/pkg/geo"
)

// AppendWaypoint adds a waypoint after the current last one, linking the two
// with a new segment. The first waypoint gets index 0.
func (g *Graph) AppendWaypoint(pos geo.Position) *Waypoint {
	next := 0
	prev, hasPrev := g.Last()
	if hasPrev {
		next = prev.Index() + 1
	}

	w := newWaypoint(pos, next)
	var links []*Segment
	if hasPrev {
		links = append(links, newSegment(prev, w))
	}
	g.add([]*Waypoint{w}, links)

	g.logger.Debug("waypoint appended", "id", w.id, "index", next)
	return w
}

// SplitSegment inserts a waypoint at the midpoint of the segment, replacing
// it with two segments. Every waypoint after the split point moves up one
// index.
func (g *Graph) SplitSegment(segmentID string) (*Waypoint, error) {
	s, ok := g.segments[segmentID]
	if !ok {
		return nil, fmt.Errorf("%w: segment %s", ErrNotFound, segmentID)
	}
	from, err := s.From()
	if err != nil {
		return nil, err
	}
	to, err := s.To()
	if err != nil {
		return nil, err
	}

	idx := from.Index() + 1
	mid := geo.Midpoint(from.Position(), to.Position())

	for _, w := range g.insertionOrder() {
		if w.Index() >= idx {
			w.SetSequenceIndex(w.Index() + 1)
		}
	}

	m := newWaypoint(mid, idx)
	in := newSegment(from, m)
	out := newSegment(m, to)

	g.removeSegment(segmentID)
	g.add([]*Waypoint{m}, []*Segment{in, out})

	g.logger.Debug("segment split", "segment", segmentID, "waypoint", m.id, "index", idx)
	return m, nil
}

// RemoveWaypoint deletes a waypoint and repairs the chain around it:
//   - removing the last waypoint drops its incoming segment;
//   - removing the first waypoint drops its outgoing segment and shifts every
//     remaining index down by one;
//   - removing an interior waypoint bridges its neighbours with a new segment
//     and shifts later indices down by one.
//
// Unknown ids are logged and reported as false.
func (g *Graph) RemoveWaypoint(id string) bool {
	w, ok := g.waypoints[id]
	if !ok {
		g.logger.Warn("attempt to delete nonexistent waypoint", "id", id)
		return false
	}

	in, out := w.incoming, w.outgoing
	switch {
	case in != "" && out == "":
		g.removeSegment(in)

	case in == "" && out != "":
		g.removeSegment(out)
		for _, o := range g.insertionOrder() {
			if o != w {
				o.SetSequenceIndex(o.Index() - 1)
			}
		}

	case in != "" && out != "":
		idx := w.Index()
		for _, o := range g.insertionOrder() {
			if o.Index() > idx {
				o.SetSequenceIndex(o.Index() - 1)
			}
		}

		prev, _ := w.Previous()
		next, _ := w.Next()
		if prev != nil && next != nil {
			g.add(nil, []*Segment{newSegment(prev, next)})
		}
		g.removeSegment(in)
		g.removeSegment(out)
	}

	g.removeWaypointEntity(id)
	g.logger.Debug("waypoint removed", "id", id)
	return true
}

// MoveWaypoint sets the position of a waypoint, as dragging its marker does.
func (g *Graph) MoveWaypoint(id string, pos geo.Position) error {
	w, err := g.lookup(id)
	if err != nil {
		return err
	}
	w.SetPosition(pos)
	return nil
}

// SetWaypointUsable changes the usability of a waypoint and clears the
// selection.
func (g *Graph) SetWaypointUsable(id string, usable bool) error {
	w, err := g.lookup(id)
	if err != nil {
		return err
	}
	w.SetUsable(usable)
	g.selected.Set("")
	return nil
}

// RefreshGeometry recomputes every segment's visuals. Call it after the
// Surface zoom changes.
func (g *Graph) RefreshGeometry() {
	for _, s := range g.Segments() {
		s.updateGeometry()
	}
}

// SetAffordanceThreshold changes the on-screen length above which segments
// show their insert affordance and re-evaluates every segment.
func (g *Graph) SetAffordanceThreshold(px float64) {
	g.opts.AffordanceThresholdPx = px
	g.RefreshGeometry()
}
