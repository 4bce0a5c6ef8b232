package pathgraph

import (
	"fmt"

	"github.com/sanonone/waypath/pkg/geo"
)

// Polyline style shared by every segment.
const (
	segmentWeight    = 2
	segmentOpacity   = 0.8
	segmentDashArray = "5, 5"
)

// LinkData is the serialized form of a Segment.
type LinkData struct {
	EntityData
	From string `json:"from" jsonschema:"Id of the source marker"`
	To   string `json:"to" jsonschema:"Id of the destination marker"`
}

// Segment is a directed link between two consecutive waypoints.
type Segment struct {
	Entity

	from string
	to   string

	// affordance is true while the midpoint control is shown.
	affordance    bool
	affordancePos geo.Position
}

// newSegment links from to to, updating both endpoint references.
func newSegment(from, to *Waypoint) *Segment {
	s := &Segment{
		Entity: newEntity(),
		from:   from.id,
		to:     to.id,
	}
	from.outgoing = s.id
	to.incoming = s.id
	return s
}

// FromID returns the source waypoint id.
func (s *Segment) FromID() string { return s.from }

// ToID returns the destination waypoint id.
func (s *Segment) ToID() string { return s.to }

// From resolves the source waypoint.
func (s *Segment) From() (*Waypoint, error) {
	return s.endpoint(s.from)
}

// To resolves the destination waypoint.
func (s *Segment) To() (*Waypoint, error) {
	return s.endpoint(s.to)
}

func (s *Segment) endpoint(id string) (*Waypoint, error) {
	g, err := s.PathGraph()
	if err != nil {
		return nil, err
	}
	w, ok := g.waypoints[id]
	if !ok {
		return nil, fmt.Errorf("%w: waypoint %s of segment %s", ErrNotFound, id, s.id)
	}
	return w, nil
}

// Color is derived from the destination: blue when it is usable, grey
// otherwise or when it cannot be resolved.
func (s *Segment) Color() Color {
	to, err := s.To()
	if err != nil || !to.Usable() {
		return ColorGrey
	}
	return ColorBlue
}

// Midpoint returns the on-screen midpoint of the segment.
func (s *Segment) Midpoint() (geo.Position, error) {
	from, err := s.From()
	if err != nil {
		return geo.Position{}, err
	}
	to, err := s.To()
	if err != nil {
		return geo.Position{}, err
	}
	return geo.Midpoint(from.Position(), to.Position()), nil
}

// PixelLength returns the on-screen length at the Surface's current zoom.
func (s *Segment) PixelLength() (float64, error) {
	from, err := s.From()
	if err != nil {
		return 0, err
	}
	to, err := s.To()
	if err != nil {
		return 0, err
	}
	meters := geo.Distance(from.Position(), to.Position())
	return geo.MetersToPixels(meters, from.Position().Lat(), s.graph.surface.Zoom()), nil
}

// HasAffordance reports whether the midpoint control is currently shown.
func (s *Segment) HasAffordance() bool { return s.affordance }

// ActivateAffordance splits the segment at its midpoint, as a click on the
// midpoint control does.
func (s *Segment) ActivateAffordance() (*Waypoint, error) {
	g, err := s.PathGraph()
	if err != nil {
		return nil, err
	}
	if !s.affordance {
		return nil, ErrNoAffordance
	}
	return g.SplitSegment(s.id)
}

// View returns the polyline visual for the current endpoint positions.
func (s *Segment) View() (PolylineView, error) {
	from, err := s.From()
	if err != nil {
		return PolylineView{}, err
	}
	to, err := s.To()
	if err != nil {
		return PolylineView{}, err
	}
	return PolylineView{
		ID:        s.id,
		Path:      [2]geo.Position{from.Position(), to.Position()},
		Color:     s.Color(),
		Weight:    segmentWeight,
		Opacity:   segmentOpacity,
		DashArray: segmentDashArray,
	}, nil
}

func (s *Segment) attach(g *Graph) {
	s.setParent(g)

	from, okFrom := g.waypoints[s.from]
	to, okTo := g.waypoints[s.to]
	if !okFrom || !okTo {
		g.logger.Warn("segment attached with unresolved endpoint", "id", s.id, "from", s.from, "to", s.to)
		return
	}

	s.subs.Add(from.position.Subscribe(func(geo.Position) { s.updateGeometry() }))
	s.subs.Add(to.position.Subscribe(func(geo.Position) { s.updateGeometry() }))
	s.subs.Add(to.usable.Subscribe(func(bool) { s.render() }))
}

func (s *Segment) detach() {
	g := s.graph
	s.subs.Release()
	if g != nil {
		g.surface.RemovePolyline(s.id)
		s.hideAffordance()
	}
	s.setParent(nil)
}

func (s *Segment) render() {
	g := s.graph
	if g == nil || !g.visible {
		return
	}
	v, err := s.View()
	if err != nil {
		return
	}
	g.surface.PlacePolyline(v)
}

// updateGeometry redraws the polyline and shows or hides the midpoint
// control depending on the on-screen length.
func (s *Segment) updateGeometry() {
	g := s.graph
	if g == nil || !g.visible {
		return
	}
	s.render()

	length, err := s.PixelLength()
	if err != nil {
		return
	}
	if length <= g.opts.AffordanceThresholdPx {
		s.hideAffordance()
		return
	}

	mid, err := s.Midpoint()
	if err != nil {
		return
	}
	s.affordance = true
	s.affordancePos = mid
	g.surface.PlaceAffordance(AffordanceView{SegmentID: s.id, Position: mid})
}

func (s *Segment) hideAffordance() {
	if !s.affordance {
		return
	}
	s.affordance = false
	if s.graph != nil {
		s.graph.surface.RemoveAffordance(s.id)
	}
}

func (s *Segment) serialize() LinkData {
	return LinkData{
		EntityData: s.serializeBase(),
		From:       s.from,
		To:         s.to,
	}
}

func (s *Segment) deserialize(data LinkData) {
	s.deserializeBase(data.EntityData)
	s.from = data.From
	s.to = data.To
}
