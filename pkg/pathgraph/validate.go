package pathgraph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Validate checks the chain invariants and returns every violation found,
// joined. A nil result means the Graph is a single well-formed chain.
func (g *Graph) Validate() error {
	var errs []error

	for _, w := range g.insertionOrder() {
		if w.incoming != "" {
			s, ok := g.segments[w.incoming]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("waypoint %s: incoming segment %s does not exist", w.id, w.incoming))
			case s.to != w.id:
				errs = append(errs, fmt.Errorf("waypoint %s: incoming segment %s ends at %s", w.id, s.id, s.to))
			}
		}
		if w.outgoing != "" {
			s, ok := g.segments[w.outgoing]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("waypoint %s: outgoing segment %s does not exist", w.id, w.outgoing))
			case s.from != w.id:
				errs = append(errs, fmt.Errorf("waypoint %s: outgoing segment %s starts at %s", w.id, s.id, s.from))
			}
		}
	}

	for _, s := range g.Segments() {
		from, okFrom := g.waypoints[s.from]
		to, okTo := g.waypoints[s.to]
		if !okFrom || !okTo {
			errs = append(errs, fmt.Errorf("segment %s: unresolved endpoint", s.id))
			continue
		}
		// A waypoint references a single segment each way, so a second
		// segment sharing an endpoint shows up here as unreferenced.
		if from.outgoing != s.id {
			errs = append(errs, fmt.Errorf("segment %s: not the outgoing segment of %s", s.id, from.id))
		}
		if to.incoming != s.id {
			errs = append(errs, fmt.Errorf("segment %s: not the incoming segment of %s", s.id, to.id))
		}
	}

	if err := g.checkAcyclic(); err != nil {
		errs = append(errs, err)
	}
	if err := g.checkSequence(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (g *Graph) checkAcyclic() error {
	nodes := make(map[string]int64, len(g.waypoints))
	dg := simple.NewDirectedGraph()
	for i, id := range g.waypointOrder {
		nodes[id] = int64(i)
		dg.AddNode(simple.Node(i))
	}
	for _, s := range g.Segments() {
		from, okFrom := nodes[s.from]
		to, okTo := nodes[s.to]
		if !okFrom || !okTo {
			continue
		}
		if from == to {
			return fmt.Errorf("segment %s loops on waypoint %s", s.id, s.from)
		}
		dg.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
	if _, err := topo.Sort(dg); err != nil {
		return fmt.Errorf("segments form a cycle: %w", err)
	}
	return nil
}

// checkSequence walks the chain from index 0 and expects to meet every
// waypoint once, with consecutive indices.
func (g *Graph) checkSequence() error {
	n := len(g.waypoints)
	if n == 0 {
		return nil
	}

	cur, ok := g.WaypointAt(0)
	if !ok {
		return errors.New("no waypoint has index 0")
	}
	if cur.incoming != "" {
		return fmt.Errorf("first waypoint %s has an incoming segment", cur.id)
	}

	visited := make(map[string]bool, n)
	for expected := 0; cur != nil; expected++ {
		if visited[cur.id] {
			return fmt.Errorf("waypoint %s visited twice", cur.id)
		}
		visited[cur.id] = true
		if cur.Index() != expected {
			return fmt.Errorf("waypoint %s has index %d, expected %d", cur.id, cur.Index(), expected)
		}
		next, err := cur.Next()
		if err != nil {
			return err
		}
		cur = next
	}

	if len(visited) != n {
		return fmt.Errorf("chain from index 0 reaches %d of %d waypoints", len(visited), n)
	}
	return nil
}
