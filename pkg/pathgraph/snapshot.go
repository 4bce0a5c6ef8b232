package pathgraph

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// Snapshot is the persisted form of a Graph. Markers and links are listed in
// insertion order.
type Snapshot struct {
	EntityData
	Markers []MarkerData `json:"markers" jsonschema:"Every marker of the path"`
	Links   []LinkData   `json:"links" jsonschema:"Every link between consecutive markers"`
}

// Serialize captures the Graph. It has no side effects.
func (g *Graph) Serialize() Snapshot {
	snap := Snapshot{
		EntityData: g.serializeBase(),
		Markers:    make([]MarkerData, 0, len(g.waypointOrder)),
		Links:      make([]LinkData, 0, len(g.segmentOrder)),
	}
	for _, w := range g.insertionOrder() {
		snap.Markers = append(snap.Markers, w.serialize())
	}
	for _, s := range g.Segments() {
		snap.Links = append(snap.Links, s.serialize())
	}
	return snap
}

// Deserialize replaces the content of the Graph with snap, preserving every
// id. Links whose endpoints are not among the markers, or duplicated ids,
// yield ErrCorruptedData. With StrictSnapshots the chain invariants are
// checked as well. On error the Graph is left empty and keeps its own id.
func (g *Graph) Deserialize(snap Snapshot) error {
	g.Clear()

	markers := make([]*Waypoint, 0, len(snap.Markers))
	byID := make(map[string]*Waypoint, len(snap.Markers))
	for i, md := range snap.Markers {
		if _, dup := byID[md.ID]; dup || md.ID == "" {
			return fmt.Errorf("%w: marker %d has a missing or duplicate id %q", ErrCorruptedData, i, md.ID)
		}
		w := newWaypoint(md.Position, md.Index)
		w.deserialize(md)
		markers = append(markers, w)
		byID[w.id] = w
	}

	links := make([]*Segment, 0, len(snap.Links))
	seen := make(map[string]struct{}, len(snap.Links))
	for i, ld := range snap.Links {
		if _, dup := seen[ld.ID]; dup || ld.ID == "" {
			return fmt.Errorf("%w: link %d has a missing or duplicate id %q", ErrCorruptedData, i, ld.ID)
		}
		seen[ld.ID] = struct{}{}

		from, okFrom := byID[ld.From]
		to, okTo := byID[ld.To]
		if !okFrom || !okTo {
			return fmt.Errorf("%w: link %s references unknown marker", ErrCorruptedData, ld.ID)
		}
		s := newSegment(from, to)
		s.deserialize(ld)
		from.outgoing = s.id
		to.incoming = s.id
		links = append(links, s)
	}

	prev := g.serializeBase()
	if snap.ID != "" {
		g.deserializeBase(snap.EntityData)
	}
	g.add(markers, nil)
	g.add(nil, links)

	if g.opts.StrictSnapshots {
		if err := g.Validate(); err != nil {
			g.Clear()
			g.deserializeBase(prev)
			return fmt.Errorf("%w: %v", ErrCorruptedData, err)
		}
	}

	g.logger.Debug("snapshot restored", "id", g.id, "markers", len(markers), "links", len(links))
	return nil
}

var snapshotSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema, err := jsonschema.For[Snapshot](nil)
	if err != nil {
		return nil, err
	}
	return schema.Resolve(nil)
})

// SnapshotSchema returns the JSON schema of the persisted form.
func SnapshotSchema() (*jsonschema.Schema, error) {
	return jsonschema.For[Snapshot](nil)
}

// DecodeSnapshot parses and validates the structure of a persisted snapshot.
// Structural problems are reported as ErrCorruptedData.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptedData, err)
	}

	resolved, err := snapshotSchema()
	if err != nil {
		return Snapshot{}, fmt.Errorf("pathgraph: building snapshot schema: %w", err)
	}
	if err := resolved.Validate(raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptedData, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptedData, err)
	}
	return snap, nil
}

// EncodeSnapshot marshals a snapshot to its persisted JSON form.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Markers == nil {
		snap.Markers = []MarkerData{}
	}
	if snap.Links == nil {
		snap.Links = []LinkData{}
	}
	return json.Marshal(snap)
}
