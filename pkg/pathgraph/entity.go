package pathgraph

import (
	"github.com/google/uuid"
	"github.com/sanonone/waypath/pkg/observable"
)

// EntityData is the serialized form shared by every entity.
type EntityData struct {
	ID string `json:"id" jsonschema:"Unique identifier of the entity"`
}

// Entity carries the identity and the owning Graph of a waypoint, a segment
// or the Graph itself.
type Entity struct {
	id    string
	graph *Graph

	// subs holds every subscription created while attached.
	subs observable.Bag
}

func newEntity() Entity {
	return Entity{id: uuid.NewString()}
}

// ID returns the entity identifier.
func (e *Entity) ID() string {
	return e.id
}

// Attached reports whether the entity currently belongs to a Graph.
func (e *Entity) Attached() bool {
	return e.graph != nil
}

// PathGraph returns the owning Graph, or ErrDetachedEntity.
func (e *Entity) PathGraph() (*Graph, error) {
	if e.graph == nil {
		return nil, ErrDetachedEntity
	}
	return e.graph, nil
}

func (e *Entity) setParent(g *Graph) {
	e.graph = g
}

func (e *Entity) serializeBase() EntityData {
	return EntityData{ID: e.id}
}

func (e *Entity) deserializeBase(data EntityData) {
	e.id = data.ID
}
