package pathgraph

import "github.com/sanonone/waypath/pkg/geo"

// DefaultZoom is the zoom level assumed when no Surface is configured.
const DefaultZoom = 13

// Color is the display colour of a marker or polyline.
type Color string

const (
	ColorRed  Color = "red"
	ColorBlue Color = "blue"
	ColorGrey Color = "grey"
)

// MarkerView is the visual of a waypoint: a draggable dot labelled with its
// sequence index.
type MarkerView struct {
	ID        string       `json:"id"`
	Position  geo.Position `json:"position"`
	Label     string       `json:"label"`
	Color     Color        `json:"color"`
	Draggable bool         `json:"draggable"`
}

// PolylineView is the visual of a segment.
type PolylineView struct {
	ID        string          `json:"id"`
	Path      [2]geo.Position `json:"path"`
	Color     Color           `json:"color"`
	Weight    int             `json:"weight"`
	Opacity   float64         `json:"opacity"`
	DashArray string          `json:"dash_array"`
}

// AffordanceView is the "insert here" control drawn at a segment's midpoint.
type AffordanceView struct {
	SegmentID string       `json:"segment_id"`
	Position  geo.Position `json:"position"`
}

// Surface is the rendering host. Place* calls are upserts keyed by id and
// Remove* calls of unknown ids must be ignored. Removing a visual never
// affects the logical entity behind it.
type Surface interface {
	// Zoom returns the current zoom level of the map.
	Zoom() float64

	PlaceMarker(v MarkerView)
	RemoveMarker(id string)

	PlacePolyline(v PolylineView)
	RemovePolyline(id string)

	PlaceAffordance(v AffordanceView)
	RemoveAffordance(segmentID string)
}

type nopSurface struct{}

func (nopSurface) Zoom() float64                  { return DefaultZoom }
func (nopSurface) PlaceMarker(MarkerView)         {}
func (nopSurface) RemoveMarker(string)            {}
func (nopSurface) PlacePolyline(PolylineView)     {}
func (nopSurface) RemovePolyline(string)          {}
func (nopSurface) PlaceAffordance(AffordanceView) {}
func (nopSurface) RemoveAffordance(string)        {}
