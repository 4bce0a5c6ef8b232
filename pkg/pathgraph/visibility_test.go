package pathgraph_test

import (
	"testing"

	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffordanceFollowsPixelLength(t *testing.T) {
	g, rec := newGraph(t)
	a := g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)
	c := g.AppendWaypoint(east)

	first, _ := g.Segment(a.OutgoingID())
	require.True(t, first.HasAffordance())
	v, ok := rec.Affordance(first.ID())
	require.True(t, ok)
	mid, err := first.Midpoint()
	require.NoError(t, err)
	assert.Equal(t, mid, v.Position)

	// Collapsing the second hop removes its control.
	second, _ := g.Segment(b.OutgoingID())
	require.True(t, second.HasAffordance())
	require.NoError(t, g.MoveWaypoint(c.ID(), b.Position()))
	assert.False(t, second.HasAffordance())
	_, ok = rec.Affordance(second.ID())
	assert.False(t, ok)

	// Moving it back restores the control at the new midpoint.
	require.NoError(t, g.MoveWaypoint(c.ID(), east))
	v, ok = rec.Affordance(second.ID())
	require.True(t, ok)
	mid, _ = second.Midpoint()
	assert.Equal(t, mid, v.Position)
}

func TestAffordanceDependsOnZoom(t *testing.T) {
	g, rec := newGraph(t)
	a := g.AppendWaypoint(london)
	g.AppendWaypoint(nearby)

	s, _ := g.Segment(a.OutgoingID())
	assert.False(t, s.HasAffordance())

	px, err := s.PixelLength()
	require.NoError(t, err)
	assert.Less(t, px, 50.0)

	rec.SetZoom(18)
	g.RefreshGeometry()
	assert.True(t, s.HasAffordance())

	rec.SetZoom(10)
	g.RefreshGeometry()
	assert.False(t, s.HasAffordance())
	_, ok := rec.Affordance(s.ID())
	assert.False(t, ok)
}

func TestActivateAffordance(t *testing.T) {
	g, _ := newGraph(t)
	a := g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)
	c := g.AppendWaypoint(nearby)

	long, _ := g.Segment(a.OutgoingID())
	m, err := long.ActivateAffordance()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Index())
	assert.Equal(t, 2, b.Index())
	assert.Equal(t, 3, c.Index())
	require.NoError(t, g.Validate())

	// A segment too short for a control refuses activation.
	require.NoError(t, g.MoveWaypoint(c.ID(), b.Position()))
	short, _ := g.Segment(b.OutgoingID())
	_, err = short.ActivateAffordance()
	assert.ErrorIs(t, err, pathgraph.ErrNoAffordance)
}

func TestHideAndShow(t *testing.T) {
	g, rec := newGraph(t)
	a := g.AppendWaypoint(london)
	g.AppendWaypoint(north)
	require.NoError(t, g.Select(a.ID()))

	g.Hide()
	assert.False(t, g.Visible())
	assert.Empty(t, g.SelectedID())
	scene := rec.Scene()
	assert.Empty(t, scene.Markers)
	assert.Empty(t, scene.Polylines)
	assert.Empty(t, scene.Affordances)
	assert.Equal(t, 2, g.Len(), "hiding keeps the logical model")

	// Edits while hidden are not drawn.
	c := g.AppendWaypoint(east)
	assert.Empty(t, rec.Scene().Markers)

	g.Show()
	scene = rec.Scene()
	assert.Len(t, scene.Markers, 3)
	assert.Len(t, scene.Polylines, 2)
	assert.Contains(t, scene.Markers, c.ID())
	assert.NotEmpty(t, scene.Affordances)
}

func TestToggleVisibility(t *testing.T) {
	g, _ := newGraph(t)
	assert.False(t, g.ToggleVisibility())
	assert.True(t, g.ToggleVisibility())
}

func TestNilSurfaceStillComputes(t *testing.T) {
	g := pathgraph.New(pathgraph.DefaultOptions())
	a := g.AppendWaypoint(london)
	g.AppendWaypoint(north)

	s, _ := g.Segment(a.OutgoingID())
	assert.True(t, s.HasAffordance())
	require.NoError(t, g.Validate())
}
