// Package surface provides rendering hosts for a path graph that do not
// need a browser: a Recorder that keeps the current scene in memory and a
// Fanout that forwards every call to several hosts.
package surface

import (
	"sort"
	"sync"

	"github.com/sanonone/waypath/pkg/pathgraph"
)

// Scene is a copy of everything currently drawn.
type Scene struct {
	Zoom        float64                             `json:"zoom"`
	Markers     map[string]pathgraph.MarkerView     `json:"markers"`
	Polylines   map[string]pathgraph.PolylineView   `json:"polylines"`
	Affordances map[string]pathgraph.AffordanceView `json:"affordances"`
}

// MarkerIDs returns the ids of the drawn markers, sorted.
func (s Scene) MarkerIDs() []string { return sortedKeys(s.Markers) }

// PolylineIDs returns the ids of the drawn polylines, sorted.
func (s Scene) PolylineIDs() []string { return sortedKeys(s.Polylines) }

// AffordanceIDs returns the segment ids with a drawn affordance, sorted.
func (s Scene) AffordanceIDs() []string { return sortedKeys(s.Affordances) }

// Recorder is an in-memory Surface. It is safe for concurrent use.
type Recorder struct {
	mu    sync.RWMutex
	scene Scene
	calls int
}

var _ pathgraph.Surface = (*Recorder)(nil)

// NewRecorder creates an empty scene at the given zoom.
func NewRecorder(zoom float64) *Recorder {
	return &Recorder{scene: Scene{
		Zoom:        zoom,
		Markers:     make(map[string]pathgraph.MarkerView),
		Polylines:   make(map[string]pathgraph.PolylineView),
		Affordances: make(map[string]pathgraph.AffordanceView),
	}}
}

// Zoom returns the current zoom.
func (r *Recorder) Zoom() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scene.Zoom
}

// SetZoom changes the zoom. The graph must be told with RefreshGeometry.
func (r *Recorder) SetZoom(z float64) {
	r.mu.Lock()
	r.scene.Zoom = z
	r.mu.Unlock()
}

// PlaceMarker stores or replaces a marker.
func (r *Recorder) PlaceMarker(v pathgraph.MarkerView) {
	r.mu.Lock()
	r.scene.Markers[v.ID] = v
	r.calls++
	r.mu.Unlock()
}

// RemoveMarker drops a marker. Unknown ids are ignored.
func (r *Recorder) RemoveMarker(id string) {
	r.mu.Lock()
	delete(r.scene.Markers, id)
	r.calls++
	r.mu.Unlock()
}

// PlacePolyline stores or replaces a segment line.
func (r *Recorder) PlacePolyline(v pathgraph.PolylineView) {
	r.mu.Lock()
	r.scene.Polylines[v.ID] = v
	r.calls++
	r.mu.Unlock()
}

// RemovePolyline drops a segment line.
func (r *Recorder) RemovePolyline(id string) {
	r.mu.Lock()
	delete(r.scene.Polylines, id)
	r.calls++
	r.mu.Unlock()
}

// PlaceAffordance stores the midpoint control of a segment.
func (r *Recorder) PlaceAffordance(v pathgraph.AffordanceView) {
	r.mu.Lock()
	r.scene.Affordances[v.SegmentID] = v
	r.calls++
	r.mu.Unlock()
}

// RemoveAffordance drops the midpoint control of a segment.
func (r *Recorder) RemoveAffordance(segmentID string) {
	r.mu.Lock()
	delete(r.scene.Affordances, segmentID)
	r.calls++
	r.mu.Unlock()
}

// Marker returns the drawn marker with the given id.
func (r *Recorder) Marker(id string) (pathgraph.MarkerView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.scene.Markers[id]
	return v, ok
}

// Polyline returns the drawn polyline with the given id.
func (r *Recorder) Polyline(id string) (pathgraph.PolylineView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.scene.Polylines[id]
	return v, ok
}

// Affordance returns the drawn affordance of a segment.
func (r *Recorder) Affordance(segmentID string) (pathgraph.AffordanceView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.scene.Affordances[segmentID]
	return v, ok
}

// Calls returns how many Place/Remove calls were received.
func (r *Recorder) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}

// Scene returns a deep copy of the current scene.
func (r *Recorder) Scene() Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := Scene{
		Zoom:        r.scene.Zoom,
		Markers:     make(map[string]pathgraph.MarkerView, len(r.scene.Markers)),
		Polylines:   make(map[string]pathgraph.PolylineView, len(r.scene.Polylines)),
		Affordances: make(map[string]pathgraph.AffordanceView, len(r.scene.Affordances)),
	}
	for k, v := range r.scene.Markers {
		out.Markers[k] = v
	}
	for k, v := range r.scene.Polylines {
		out.Polylines[k] = v
	}
	for k, v := range r.scene.Affordances {
		out.Affordances[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
