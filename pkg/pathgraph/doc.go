// Package pathgraph implements the in-memory model of an editable path: an
// ordered chain of waypoints joined by directed segments.
//
// The Graph is the only entry point for structural change. Waypoints and
// segments never hold pointers to each other; they store identifiers and
// resolve neighbours through the Graph that owns them, so removing an entity
// cannot leave a dangling reference behind.
//
// Basic usage:
//
//	g := pathgraph.New(pathgraph.DefaultOptions())
//	a := g.AppendWaypoint(geo.LatLng(51.50, -0.10))
//	b := g.AppendWaypoint(geo.LatLng(51.51, -0.08))
//	mid, err := g.SplitSegment(b.IncomingID())
//	...
//	snap := g.Serialize()
//
// # Reactive state
//
// Position, sequence index, usability and display colour of a waypoint are
// observable.Value cells. Attaching an entity to a Graph subscribes it to the
// cells it depends on (a segment to its endpoints' positions and its
// destination's usability, a waypoint to the Graph's selection); detaching
// releases every one of those subscriptions. Updates cascade synchronously:
// moving a waypoint redraws its marker, its two segments and their midpoint
// affordances before SetPosition returns.
//
// # Chain invariants
//
//  1. A waypoint's incoming/outgoing segment, when set, ends/starts at it.
//  2. Following outgoing segments from index 0 visits every waypoint once,
//     in increasing index order, and stops at the one with no outgoing.
//  3. No waypoint has more than one incoming or outgoing segment.
//
// AppendWaypoint, SplitSegment and RemoveWaypoint preserve them. Validate
// checks them explicitly; Deserialize only does so in strict mode.
//
// A Graph is not safe for concurrent use. pkg/engine wraps it with a mutex.
package pathgraph
