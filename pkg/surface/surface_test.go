package surface

import (
	"testing"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderTracksScene(t *testing.T) {
	r := NewRecorder(13)

	r.PlaceMarker(pathgraph.MarkerView{ID: "b", Label: "1"})
	r.PlaceMarker(pathgraph.MarkerView{ID: "a", Label: "0"})
	r.PlaceMarker(pathgraph.MarkerView{ID: "a", Label: "0", Color: pathgraph.ColorRed})
	r.PlacePolyline(pathgraph.PolylineView{ID: "s"})
	r.PlaceAffordance(pathgraph.AffordanceView{SegmentID: "s", Position: geo.LatLng(1, 2)})

	scene := r.Scene()
	assert.Equal(t, []string{"a", "b"}, scene.MarkerIDs())
	assert.Equal(t, []string{"s"}, scene.PolylineIDs())
	assert.Equal(t, []string{"s"}, scene.AffordanceIDs())
	assert.Equal(t, pathgraph.ColorRed, scene.Markers["a"].Color)
	assert.Equal(t, 5, r.Calls())

	r.RemoveMarker("b")
	r.RemovePolyline("s")
	r.RemoveAffordance("s")
	_, ok := r.Marker("b")
	assert.False(t, ok)
	_, ok = r.Polyline("s")
	assert.False(t, ok)
	_, ok = r.Affordance("s")
	assert.False(t, ok)

	// The earlier copy is unaffected.
	assert.Len(t, scene.Markers, 2)
}

func TestRecorderZoom(t *testing.T) {
	r := NewRecorder(13)
	r.SetZoom(16)
	assert.Equal(t, 16.0, r.Zoom())
	assert.Equal(t, 16.0, r.Scene().Zoom)
}

func TestFanoutForwardsToAll(t *testing.T) {
	primary := NewRecorder(13)
	follower := NewRecorder(3)
	f := NewFanout(primary, follower)

	f.PlaceMarker(pathgraph.MarkerView{ID: "m"})
	f.PlacePolyline(pathgraph.PolylineView{ID: "s"})
	f.PlaceAffordance(pathgraph.AffordanceView{SegmentID: "s"})
	for _, r := range []*Recorder{primary, follower} {
		s := r.Scene()
		assert.Len(t, s.Markers, 1)
		assert.Len(t, s.Polylines, 1)
		assert.Len(t, s.Affordances, 1)
	}

	f.RemoveMarker("m")
	f.RemovePolyline("s")
	f.RemoveAffordance("s")
	assert.Equal(t, 6, follower.Calls())
	assert.Empty(t, follower.Scene().Markers)

	assert.Equal(t, 13.0, f.Zoom(), "zoom comes from the primary")
	f.SetZoom(15)
	assert.Equal(t, 15.0, primary.Zoom())
	assert.Equal(t, 15.0, follower.Zoom())
}

func TestRecorderDrivesGraph(t *testing.T) {
	r := NewRecorder(pathgraph.DefaultZoom)
	opts := pathgraph.DefaultOptions()
	opts.Surface = r
	g := pathgraph.New(opts)

	a := g.AppendWaypoint(geo.LatLng(51.50, -0.10))
	b := g.AppendWaypoint(geo.LatLng(51.52, -0.10))
	require.NotNil(t, a)
	require.NotNil(t, b)

	scene := r.Scene()
	assert.Len(t, scene.Markers, 2)
	assert.Len(t, scene.Polylines, 1)
	assert.Equal(t, "0", scene.Markers[a.ID()].Label)
	assert.Equal(t, "1", scene.Markers[b.ID()].Label)
}
