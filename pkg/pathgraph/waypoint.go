package pathgraph

import (
	"strconv"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/observable"
)

// MarkerData is the serialized form of a Waypoint.
type MarkerData struct {
	EntityData
	In       *string      `json:"in" jsonschema:"Id of the incoming link, null for the first marker"`
	Out      *string      `json:"out" jsonschema:"Id of the outgoing link, null for the last marker"`
	Index    int          `json:"idx" jsonschema:"Zero-based position of the marker in the path"`
	Position geo.Position `json:"position" jsonschema:"Coordinate as [lat, lng] in degrees"`
	Usable   bool         `json:"usable" jsonschema:"Whether the marker can be travelled through"`
}

// Waypoint is a point on the path.
type Waypoint struct {
	Entity

	position *observable.Value[geo.Position]
	index    *observable.Value[int]
	usable   *observable.Value[bool]
	color    *observable.Value[Color]

	// Segment ids, empty when absent.
	incoming string
	outgoing string
}

func newWaypoint(pos geo.Position, index int) *Waypoint {
	return &Waypoint{
		Entity:   newEntity(),
		position: observable.New(pos),
		index:    observable.New(index),
		usable:   observable.New(true),
		color:    observable.New(ColorBlue),
	}
}

// Position returns the current coordinate.
func (w *Waypoint) Position() geo.Position { return w.position.Get() }

// SetPosition moves the waypoint. Its marker and both adjacent segments are
// redrawn synchronously.
func (w *Waypoint) SetPosition(p geo.Position) { w.position.Set(p) }

// Index returns the sequence index.
func (w *Waypoint) Index() int { return w.index.Get() }

// SetSequenceIndex overwrites the sequence index. Structural operations on
// the Graph keep indices dense; calling this directly can break the chain.
func (w *Waypoint) SetSequenceIndex(i int) { w.index.Set(i) }

// Usable reports whether the waypoint can be travelled through.
func (w *Waypoint) Usable() bool { return w.usable.Get() }

// SetUsable changes usability. The marker colour and the incoming segment's
// style follow.
func (w *Waypoint) SetUsable(u bool) { w.usable.Set(u) }

// Color returns the display colour: red when selected, otherwise blue or grey
// depending on usability.
func (w *Waypoint) Color() Color { return w.color.Get() }

// Selected reports whether the waypoint is the Graph's current selection.
func (w *Waypoint) Selected() bool {
	return w.graph != nil && w.graph.selected.Get() == w.id
}

// IncomingID returns the id of the segment ending here, or "".
func (w *Waypoint) IncomingID() string { return w.incoming }

// OutgoingID returns the id of the segment starting here, or "".
func (w *Waypoint) OutgoingID() string { return w.outgoing }

// Previous resolves the waypoint before this one. It returns nil without an
// error for the first waypoint.
func (w *Waypoint) Previous() (*Waypoint, error) {
	g, err := w.PathGraph()
	if err != nil {
		return nil, err
	}
	s, ok := g.segments[w.incoming]
	if !ok {
		return nil, nil
	}
	return g.waypoints[s.from], nil
}

// Next resolves the waypoint after this one. It returns nil without an error
// for the last waypoint.
func (w *Waypoint) Next() (*Waypoint, error) {
	g, err := w.PathGraph()
	if err != nil {
		return nil, err
	}
	s, ok := g.segments[w.outgoing]
	if !ok {
		return nil, nil
	}
	return g.waypoints[s.to], nil
}

// SubscribePosition calls fn with the current position and on every move.
func (w *Waypoint) SubscribePosition(fn func(geo.Position)) observable.Disposer {
	return w.position.Subscribe(fn)
}

// SubscribeIndex calls fn with the current index and on every reindex.
func (w *Waypoint) SubscribeIndex(fn func(int)) observable.Disposer {
	return w.index.Subscribe(fn)
}

// SubscribeUsable calls fn with the current usability and on every change.
func (w *Waypoint) SubscribeUsable(fn func(bool)) observable.Disposer {
	return w.usable.Subscribe(fn)
}

// SubscribeColor calls fn with the current display colour and on every change.
func (w *Waypoint) SubscribeColor(fn func(Color)) observable.Disposer {
	return w.color.Subscribe(fn)
}

// View returns the marker visual for the current state.
func (w *Waypoint) View() MarkerView {
	return MarkerView{
		ID:        w.id,
		Position:  w.position.Get(),
		Label:     strconv.Itoa(w.index.Get()),
		Color:     w.color.Get(),
		Draggable: true,
	}
}

func colorFor(selected, usable bool) Color {
	switch {
	case selected:
		return ColorRed
	case usable:
		return ColorBlue
	default:
		return ColorGrey
	}
}

func (w *Waypoint) attach(g *Graph) {
	w.setParent(g)

	recolor := func() {
		w.color.Set(colorFor(g.selected.Get() == w.id, w.usable.Get()))
	}
	w.subs.Add(g.selected.Subscribe(func(string) { recolor() }))
	w.subs.Add(w.usable.Subscribe(func(bool) { recolor() }))

	w.subs.Add(g.trackSequence(w))

	w.subs.Add(w.position.Subscribe(func(geo.Position) { w.render() }))
	w.subs.Add(w.index.Subscribe(func(int) { w.render() }))
	w.subs.Add(w.color.Subscribe(func(Color) { w.render() }))
}

func (w *Waypoint) detach() {
	g := w.graph
	w.subs.Release()
	if g != nil {
		g.surface.RemoveMarker(w.id)
	}
	w.setParent(nil)
}

func (w *Waypoint) render() {
	g := w.graph
	if g == nil || !g.visible {
		return
	}
	g.surface.PlaceMarker(w.View())
}

func (w *Waypoint) serialize() MarkerData {
	return MarkerData{
		EntityData: w.serializeBase(),
		In:         optionalID(w.incoming),
		Out:        optionalID(w.outgoing),
		Index:      w.index.Get(),
		Position:   w.position.Get(),
		Usable:     w.usable.Get(),
	}
}

// deserialize restores state on a detached waypoint. Both link references
// are taken from their own fields.
func (w *Waypoint) deserialize(data MarkerData) {
	w.deserializeBase(data.EntityData)
	w.incoming = derefID(data.In)
	w.outgoing = derefID(data.Out)
	w.index.Set(data.Index)
	w.position.Set(data.Position)
	w.usable.Set(data.Usable)
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func derefID(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
