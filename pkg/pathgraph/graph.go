package pathgraph

import (
	"fmt"
	"log/slog"

	"github.com/sanonone/waypath/pkg/observable"
	"github.com/tidwall/btree"
)

// Options configures a Graph.
type Options struct {
	// Surface receives every visual. Nil means nothing is rendered and the
	// zoom is fixed at DefaultZoom.
	Surface Surface

	Logger *slog.Logger

	// AffordanceThresholdPx is the on-screen length above which a segment
	// shows its midpoint control.
	AffordanceThresholdPx float64

	// StrictSnapshots makes Deserialize reject snapshots that break the chain
	// invariants.
	StrictSnapshots bool
}

// DefaultOptions returns the options used by the editor out of the box.
func DefaultOptions() Options {
	return Options{
		AffordanceThresholdPx: 50,
	}
}

// Graph owns every waypoint and segment of a path.
type Graph struct {
	Entity

	opts    Options
	surface Surface
	logger  *slog.Logger

	waypoints     map[string]*Waypoint
	waypointOrder []string
	segments      map[string]*Segment
	segmentOrder  []string

	// sequence orders waypoints by index. It follows every index change
	// through a subscription held by the waypoint.
	sequence *btree.BTreeG[sequenceKey]

	// selected holds the id of the selected waypoint, "" for none.
	selected *observable.Value[string]
	visible  bool
}

// New creates an empty, visible Graph.
func New(opts Options) *Graph {
	if opts.Surface == nil {
		opts.Surface = nopSurface{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	g := &Graph{
		Entity:    newEntity(),
		opts:      opts,
		surface:   opts.Surface,
		logger:    opts.Logger.With("component", "pathgraph"),
		waypoints: make(map[string]*Waypoint),
		segments:  make(map[string]*Segment),
		sequence:  newSequenceIndex(),
		selected:  observable.New(""),
		visible:   true,
	}
	g.setParent(g)
	return g
}

// Len returns the number of waypoints.
func (g *Graph) Len() int { return len(g.waypoints) }

// SegmentCount returns the number of segments.
func (g *Graph) SegmentCount() int { return len(g.segments) }

// Waypoint looks up a waypoint by id.
func (g *Graph) Waypoint(id string) (*Waypoint, bool) {
	w, ok := g.waypoints[id]
	return w, ok
}

// Segment looks up a segment by id.
func (g *Graph) Segment(id string) (*Segment, bool) {
	s, ok := g.segments[id]
	return s, ok
}

// Waypoints returns every waypoint ordered by sequence index.
func (g *Graph) Waypoints() []*Waypoint {
	out := make([]*Waypoint, 0, len(g.waypoints))
	g.sequence.Scan(func(k sequenceKey) bool {
		if w, ok := g.waypoints[k.id]; ok {
			out = append(out, w)
		}
		return true
	})
	return out
}

// Segments returns every segment in insertion order.
func (g *Graph) Segments() []*Segment {
	out := make([]*Segment, 0, len(g.segmentOrder))
	for _, id := range g.segmentOrder {
		out = append(out, g.segments[id])
	}
	return out
}

// Surface returns the rendering host.
func (g *Graph) Surface() Surface { return g.surface }

// Visible reports whether visuals are currently rendered.
func (g *Graph) Visible() bool { return g.visible }

// insertionOrder returns the waypoints in the order they were added.
func (g *Graph) insertionOrder() []*Waypoint {
	out := make([]*Waypoint, 0, len(g.waypointOrder))
	for _, id := range g.waypointOrder {
		out = append(out, g.waypoints[id])
	}
	return out
}

// add attaches waypoints then segments and clears the selection. Segments
// must come after the waypoints they reference.
func (g *Graph) add(ws []*Waypoint, ss []*Segment) {
	for _, w := range ws {
		g.waypoints[w.id] = w
		g.waypointOrder = append(g.waypointOrder, w.id)
		w.attach(g)
	}
	for _, s := range ss {
		g.segments[s.id] = s
		g.segmentOrder = append(g.segmentOrder, s.id)
		s.attach(g)
	}
	g.selected.Set("")
}

// removeSegment detaches a segment and clears the endpoint references that
// still point at it. Unknown ids are logged and ignored.
func (g *Graph) removeSegment(id string) {
	s, ok := g.segments[id]
	if !ok {
		g.logger.Warn("attempt to delete nonexistent segment", "id", id)
		return
	}
	if from, ok := g.waypoints[s.from]; ok && from.outgoing == id {
		from.outgoing = ""
	}
	if to, ok := g.waypoints[s.to]; ok && to.incoming == id {
		to.incoming = ""
	}

	s.detach()
	delete(g.segments, id)
	g.segmentOrder = removeID(g.segmentOrder, id)
	g.selected.Set("")
}

func (g *Graph) removeWaypointEntity(id string) {
	w, ok := g.waypoints[id]
	if !ok {
		g.logger.Warn("attempt to delete nonexistent waypoint", "id", id)
		return
	}
	w.detach()
	delete(g.waypoints, id)
	g.waypointOrder = removeID(g.waypointOrder, id)
	g.selected.Set("")
}

// Clear removes every entity.
func (g *Graph) Clear() {
	for _, id := range append([]string(nil), g.segmentOrder...) {
		g.removeSegment(id)
	}
	for _, id := range append([]string(nil), g.waypointOrder...) {
		g.removeWaypointEntity(id)
	}
	g.selected.Set("")
}

func (g *Graph) lookup(id string) (*Waypoint, error) {
	w, ok := g.waypoints[id]
	if !ok {
		return nil, fmt.Errorf("%w: waypoint %s", ErrNotFound, id)
	}
	return w, nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
