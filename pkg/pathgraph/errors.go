package pathgraph

import "errors"

var (
	// ErrDetachedEntity is returned by neighbour lookups on an entity that is
	// not attached to a Graph.
	ErrDetachedEntity = errors.New("pathgraph: entity is not attached to a path graph")

	// ErrCorruptedData reports a snapshot that cannot be restored. The Graph is
	// left empty when it is returned.
	ErrCorruptedData = errors.New("pathgraph: corrupted data")

	// ErrNotFound reports an operation on an id the Graph does not hold.
	ErrNotFound = errors.New("pathgraph: entity not found")

	// ErrNoAffordance is returned when activating a midpoint affordance that is
	// not currently shown.
	ErrNoAffordance = errors.New("pathgraph: segment has no midpoint affordance")
)
