package surface

import "github.com/sanonone/waypath/pkg/pathgraph"

// Fanout forwards every call to a primary Surface and any number of
// followers. Zoom is always read from the primary.
type Fanout struct {
	primary   pathgraph.Surface
	followers []pathgraph.Surface
}

var _ pathgraph.Surface = (*Fanout)(nil)

func NewFanout(primary pathgraph.Surface, followers ...pathgraph.Surface) *Fanout {
	return &Fanout{primary: primary, followers: followers}
}

func (f *Fanout) each(fn func(pathgraph.Surface)) {
	fn(f.primary)
	for _, s := range f.followers {
		fn(s)
	}
}

func (f *Fanout) Zoom() float64 { return f.primary.Zoom() }

func (f *Fanout) PlaceMarker(v pathgraph.MarkerView) {
	f.each(func(s pathgraph.Surface) { s.PlaceMarker(v) })
}

func (f *Fanout) RemoveMarker(id string) {
	f.each(func(s pathgraph.Surface) { s.RemoveMarker(id) })
}

func (f *Fanout) PlacePolyline(v pathgraph.PolylineView) {
	f.each(func(s pathgraph.Surface) { s.PlacePolyline(v) })
}

func (f *Fanout) RemovePolyline(id string) {
	f.each(func(s pathgraph.Surface) { s.RemovePolyline(id) })
}

func (f *Fanout) PlaceAffordance(v pathgraph.AffordanceView) {
	f.each(func(s pathgraph.Surface) { s.PlaceAffordance(v) })
}

func (f *Fanout) RemoveAffordance(segmentID string) {
	f.each(func(s pathgraph.Surface) { s.RemoveAffordance(segmentID) })
}

// SetZoom forwards to every host that supports changing its zoom.
func (f *Fanout) SetZoom(z float64) {
	f.each(func(s pathgraph.Surface) {
		if zs, ok := s.(interface{ SetZoom(float64) }); ok {
			zs.SetZoom(z)
		}
	})
}
