package pathgraph_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/sanonone/waypath/pkg/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoMarkers = `{
  "id": "g1",
  "markers": [
    {"id": "m1", "in": null, "out": "l1", "idx": 0, "position": [51.5, -0.1], "usable": true},
    {"id": "m2", "in": "l1", "out": null, "idx": 1, "position": [51.52, -0.1], "usable": false}
  ],
  "links": [
    {"id": "l1", "from": "m1", "to": "m2"}
  ]
}`

func strictGraph(t *testing.T) *pathgraph.Graph {
	t.Helper()
	opts := pathgraph.DefaultOptions()
	opts.Surface = surface.NewRecorder(pathgraph.DefaultZoom)
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.StrictSnapshots = true
	return pathgraph.New(opts)
}

func TestSerializeShape(t *testing.T) {
	g, _ := newGraph(t)
	a := g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)
	b.SetUsable(false)

	snap := g.Serialize()
	assert.Equal(t, g.ID(), snap.ID)
	require.Len(t, snap.Markers, 2)
	require.Len(t, snap.Links, 1)

	first := snap.Markers[0]
	assert.Equal(t, a.ID(), first.ID)
	assert.Nil(t, first.In)
	require.NotNil(t, first.Out)
	assert.Equal(t, snap.Links[0].ID, *first.Out)
	assert.Equal(t, 0, first.Index)
	assert.True(t, first.Usable)

	second := snap.Markers[1]
	require.NotNil(t, second.In)
	assert.Equal(t, snap.Links[0].ID, *second.In)
	assert.Nil(t, second.Out)
	assert.False(t, second.Usable)

	assert.Equal(t, a.ID(), snap.Links[0].From)
	assert.Equal(t, b.ID(), snap.Links[0].To)
}

func TestSerializeEmptyGraph(t *testing.T) {
	g, _ := newGraph(t)
	data, err := pathgraph.EncodeSnapshot(g.Serialize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+g.ID()+`","markers":[],"links":[]}`, string(data))

	_, err = pathgraph.DecodeSnapshot(data)
	require.NoError(t, err)
}

func TestRoundTripPreservesIdsAndChain(t *testing.T) {
	g, _ := newGraph(t)
	g.AppendWaypoint(london)
	b := g.AppendWaypoint(north)
	g.AppendWaypoint(east)
	_, err := g.SplitSegment(b.IncomingID())
	require.NoError(t, err)
	require.NoError(t, g.SetWaypointUsable(b.ID(), false))

	data, err := pathgraph.EncodeSnapshot(g.Serialize())
	require.NoError(t, err)

	snap, err := pathgraph.DecodeSnapshot(data)
	require.NoError(t, err)

	restored, rec := newGraph(t)
	require.NoError(t, restored.Deserialize(snap))

	assert.Equal(t, g.ID(), restored.ID())
	assert.Equal(t, g.Serialize(), restored.Serialize())
	require.NoError(t, restored.Validate())

	rb, ok := restored.Waypoint(b.ID())
	require.True(t, ok)
	assert.False(t, rb.Usable())
	assert.Equal(t, pathgraph.ColorGrey, rb.Color())

	scene := rec.Scene()
	assert.Len(t, scene.Markers, 4)
	assert.Len(t, scene.Polylines, 3)
}

func TestDeserializeReplacesContent(t *testing.T) {
	g, rec := newGraph(t)
	old := g.AppendWaypoint(east)

	snap, err := pathgraph.DecodeSnapshot([]byte(twoMarkers))
	require.NoError(t, err)
	require.NoError(t, g.Deserialize(snap))

	assert.Equal(t, "g1", g.ID())
	assert.Equal(t, 2, g.Len())
	_, ok := g.Waypoint(old.ID())
	assert.False(t, ok)
	_, drawn := rec.Marker(old.ID())
	assert.False(t, drawn)

	m1, ok := g.Waypoint("m1")
	require.True(t, ok)
	assert.Equal(t, "l1", m1.OutgoingID())
	assert.Empty(t, m1.IncomingID())
	assert.Equal(t, geo.LatLng(51.5, -0.1), m1.Position())

	m2, _ := g.Waypoint("m2")
	assert.Equal(t, "l1", m2.IncomingID())
	assert.Empty(t, m2.OutgoingID())

	// Appending continues after the restored sequence.
	m3 := g.AppendWaypoint(east)
	assert.Equal(t, 2, m3.Index())
	require.NoError(t, g.Validate())
}

func TestDeserializeUnknownEndpoint(t *testing.T) {
	g, _ := newGraph(t)
	g.AppendWaypoint(london)
	ownID := g.ID()

	snap, err := pathgraph.DecodeSnapshot([]byte(twoMarkers))
	require.NoError(t, err)
	snap.Links[0].To = "ghost"

	err = g.Deserialize(snap)
	require.ErrorIs(t, err, pathgraph.ErrCorruptedData)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.SegmentCount())
	assert.Equal(t, ownID, g.ID(), "a rejected snapshot does not rename the graph")
}

func TestDeserializeDuplicateIDs(t *testing.T) {
	g, _ := newGraph(t)
	snap, err := pathgraph.DecodeSnapshot([]byte(twoMarkers))
	require.NoError(t, err)
	snap.Markers[1].ID = "m1"
	ownID := g.ID()

	assert.ErrorIs(t, g.Deserialize(snap), pathgraph.ErrCorruptedData)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, ownID, g.ID())
}

func TestStrictSnapshotsRejectBrokenChains(t *testing.T) {
	broken := pathgraph.Snapshot{
		EntityData: pathgraph.EntityData{ID: "g"},
		Markers: []pathgraph.MarkerData{
			{EntityData: pathgraph.EntityData{ID: "a"}, Index: 0, Position: london, Usable: true},
			{EntityData: pathgraph.EntityData{ID: "b"}, Index: 5, Position: north, Usable: true},
		},
		Links: []pathgraph.LinkData{},
	}

	permissive, _ := newGraph(t)
	require.NoError(t, permissive.Deserialize(broken))
	assert.Equal(t, 2, permissive.Len())
	assert.Error(t, permissive.Validate())

	strict := strictGraph(t)
	ownID := strict.ID()
	err := strict.Deserialize(broken)
	require.ErrorIs(t, err, pathgraph.ErrCorruptedData)
	assert.Equal(t, 0, strict.Len())
	assert.Equal(t, ownID, strict.ID())

	snap, err := pathgraph.DecodeSnapshot([]byte(twoMarkers))
	require.NoError(t, err)
	require.NoError(t, strict.Deserialize(snap))
}

func TestStrictSnapshotsRejectSelfLoop(t *testing.T) {
	loop := pathgraph.Snapshot{
		EntityData: pathgraph.EntityData{ID: "g"},
		Markers: []pathgraph.MarkerData{
			{EntityData: pathgraph.EntityData{ID: "a"}, Index: 0, Position: london},
		},
		Links: []pathgraph.LinkData{
			{EntityData: pathgraph.EntityData{ID: "l"}, From: "a", To: "a"},
		},
	}
	assert.ErrorIs(t, strictGraph(t).Deserialize(loop), pathgraph.ErrCorruptedData)
}

func TestDecodeSnapshotRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"id":`,
		"missing links":    `{"id":"g","markers":[]}`,
		"null markers":     `{"id":"g","markers":null,"links":[]}`,
		"extra field":      `{"id":"g","markers":[],"links":[],"zoom":3}`,
		"short position":   `{"id":"g","markers":[{"id":"m","in":null,"out":null,"idx":0,"position":[1],"usable":true}],"links":[]}`,
		"fractional index": `{"id":"g","markers":[{"id":"m","in":null,"out":null,"idx":0.5,"position":[1,2],"usable":true}],"links":[]}`,
		"missing usable":   `{"id":"g","markers":[{"id":"m","in":null,"out":null,"idx":0,"position":[1,2]}],"links":[]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pathgraph.DecodeSnapshot([]byte(doc))
			assert.ErrorIs(t, err, pathgraph.ErrCorruptedData)
		})
	}
}

func TestSnapshotSchema(t *testing.T) {
	schema, err := pathgraph.SnapshotSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"id", "markers", "links"}, schema.Required)
}
