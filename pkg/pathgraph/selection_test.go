package pathgraph_test

import (
	"testing"

	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSelection(t *testing.T) {
	g, rec := newGraph(t)
	a := g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)

	require.NoError(t, g.ToggleSelection(a.ID()))
	assert.True(t, a.Selected())
	assert.Equal(t, pathgraph.ColorRed, a.Color())
	marker, _ := rec.Marker(a.ID())
	assert.Equal(t, pathgraph.ColorRed, marker.Color)

	require.NoError(t, g.ToggleSelection(b.ID()))
	assert.False(t, a.Selected())
	assert.Equal(t, pathgraph.ColorBlue, a.Color())
	assert.Equal(t, pathgraph.ColorRed, b.Color())

	require.NoError(t, g.ToggleSelection(b.ID()))
	assert.Empty(t, g.SelectedID())
	assert.Equal(t, pathgraph.ColorBlue, b.Color())

	assert.ErrorIs(t, g.ToggleSelection("missing"), pathgraph.ErrNotFound)
}

func TestStructuralChangesClearSelection(t *testing.T) {
	g, _ := newGraph(t)
	a := g.AppendWaypoint(london)
	require.NoError(t, g.Select(a.ID()))

	g.AppendWaypoint(north)
	assert.Empty(t, g.SelectedID())

	require.NoError(t, g.Select(a.ID()))
	_, err := g.SplitSegment(a.OutgoingID())
	require.NoError(t, err)
	assert.Empty(t, g.SelectedID())
}

func TestSelectionObserversSeeEveryChange(t *testing.T) {
	g, _ := newGraph(t)
	a := g.AppendWaypoint(london)

	var seen []string
	stop := g.SubscribeSelection(func(id string) { seen = append(seen, id) })
	require.NoError(t, g.Select(a.ID()))
	g.ClearSelection()
	stop()
	require.NoError(t, g.Select(a.ID()))

	assert.Equal(t, []string{"", a.ID(), ""}, seen)
}

func TestUsabilityColours(t *testing.T) {
	g, rec := newGraph(t)
	g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)
	require.NoError(t, g.Select(b.ID()))

	require.True(t, g.SetSelectedUsable(false))
	assert.Empty(t, g.SelectedID())
	assert.False(t, b.Usable())
	assert.Equal(t, pathgraph.ColorGrey, b.Color())

	seg, ok := g.Segment(b.IncomingID())
	require.True(t, ok)
	assert.Equal(t, pathgraph.ColorGrey, seg.Color())
	line, _ := rec.Polyline(seg.ID())
	assert.Equal(t, pathgraph.ColorGrey, line.Color)

	// A selected unusable waypoint is still drawn red.
	require.NoError(t, g.Select(b.ID()))
	assert.Equal(t, pathgraph.ColorRed, b.Color())

	require.NoError(t, g.SetWaypointUsable(b.ID(), true))
	assert.Equal(t, pathgraph.ColorBlue, b.Color())
	line, _ = rec.Polyline(seg.ID())
	assert.Equal(t, pathgraph.ColorBlue, line.Color)
}

func TestSelectedActionsWithoutSelection(t *testing.T) {
	g, _ := newGraph(t)
	g.AppendWaypoint(london)

	assert.False(t, g.DeleteSelected())
	assert.False(t, g.SetSelectedUsable(false))
	assert.Equal(t, 1, g.Len())
}

func TestDeleteSelected(t *testing.T) {
	g, _ := newGraph(t)
	g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)
	require.NoError(t, g.Select(b.ID()))

	assert.True(t, g.DeleteSelected())
	assert.Equal(t, 1, g.Len())
	_, ok := g.Waypoint(b.ID())
	assert.False(t, ok)
}
