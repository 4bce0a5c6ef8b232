package pathgraph

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

// requireSubscriptions checks that every attached waypoint holds exactly the
// subscriptions its own visuals and its adjacent segments need.
func requireSubscriptions(t *testing.T, g *Graph) {
	t.Helper()
	require.Equal(t, g.Len(), g.selected.Subscribers(), "one selection subscription per waypoint")
	require.Equal(t, g.Len(), g.sequence.Len(), "one sequence entry per waypoint")

	for _, w := range g.Waypoints() {
		in, out := 0, 0
		if w.incoming != "" {
			in = 1
		}
		if w.outgoing != "" {
			out = 1
		}
		require.Equal(t, 1+in+out, w.position.Subscribers(), "position of %s", w.id)
		require.Equal(t, 1+in, w.usable.Subscribers(), "usable of %s", w.id)
		require.Equal(t, 2, w.index.Subscribers(), "index of %s", w.id)
		require.Equal(t, 1, w.color.Subscribers(), "color of %s", w.id)
	}
}

func requireReleased(t *testing.T, w *Waypoint) {
	t.Helper()
	assert.False(t, w.Attached())
	assert.Zero(t, w.subs.Len())
	assert.Zero(t, w.position.Subscribers())
	assert.Zero(t, w.usable.Subscribers())
	assert.Zero(t, w.index.Subscribers())
	assert.Zero(t, w.color.Subscribers())
}

// requireChain checks dense indices, a single head and tail, and that the
// path survives a strict round trip unchanged.
func requireChain(t *testing.T, g *Graph) {
	t.Helper()
	require.NoError(t, g.Validate())

	heads, tails := 0, 0
	for i, w := range g.Waypoints() {
		require.Equal(t, i, w.Index())
		if w.incoming == "" {
			heads++
		}
		if w.outgoing == "" {
			tails++
		}
	}
	if g.Len() > 0 {
		require.Equal(t, 1, heads)
		require.Equal(t, 1, tails)
		require.Equal(t, g.Len()-1, g.SegmentCount())
	}

	snap := g.Serialize()
	opts := quietOptions()
	opts.StrictSnapshots = true
	copyGraph := New(opts)
	require.NoError(t, copyGraph.Deserialize(snap))
	require.Equal(t, snap, copyGraph.Serialize())
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

func TestRandomEditsKeepChainAndSubscriptions(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7919))
		g := New(quietOptions())

		randomPosition := func() geo.Position {
			return geo.LatLng(51.45+r.Float64()*0.1, -0.15+r.Float64()*0.1)
		}

		for step := 0; step < 80; step++ {
			structural := false

			switch op := r.IntN(10); {
			case op < 3 || g.Len() == 0:
				g.AppendWaypoint(randomPosition())
				structural = true

			case op == 3:
				if g.SegmentCount() == 0 {
					continue
				}
				s := pick(r, g.Segments())
				_, err := g.SplitSegment(s.id)
				require.NoError(t, err)
				assert.False(t, s.Attached())
				assert.Zero(t, s.subs.Len())
				structural = true

			case op == 4:
				w := pick(r, g.Waypoints())
				require.True(t, g.RemoveWaypoint(w.id))
				requireReleased(t, w)
				structural = true

			case op == 5:
				assert.False(t, g.RemoveWaypoint("ghost"))

			case op == 6:
				require.NoError(t, g.MoveWaypoint(pick(r, g.Waypoints()).id, randomPosition()))

			case op == 7:
				require.NoError(t, g.SetWaypointUsable(pick(r, g.Waypoints()).id, r.IntN(2) == 0))

			case op == 8:
				require.NoError(t, g.Select(pick(r, g.Waypoints()).id))

			default:
				g.ToggleVisibility()
			}

			if structural {
				require.Empty(t, g.SelectedID(), "seed %d step %d", seed, step)
			}
			requireChain(t, g)
			requireSubscriptions(t, g)
		}
	}
}

func TestSplitMovesEndpointSubscriptions(t *testing.T) {
	g := New(quietOptions())
	a := g.AppendWaypoint(geo.LatLng(51.50, -0.10))
	b := g.AppendWaypoint(geo.LatLng(51.52, -0.10))
	old, _ := g.Segment(b.incoming)

	m, err := g.SplitSegment(old.id)
	require.NoError(t, err)

	assert.False(t, old.Attached())
	assert.Zero(t, old.subs.Len())

	assert.Equal(t, 2, a.position.Subscribers())
	assert.Equal(t, 1, a.usable.Subscribers())
	assert.Equal(t, 3, m.position.Subscribers())
	assert.Equal(t, 2, m.usable.Subscribers())
	assert.Equal(t, 2, b.position.Subscribers())
	assert.Equal(t, 2, b.usable.Subscribers())
	requireSubscriptions(t, g)
}

func TestFailedRestoreReleasesEverything(t *testing.T) {
	g := New(quietOptions())
	g.AppendWaypoint(geo.LatLng(51.50, -0.10))
	g.AppendWaypoint(geo.LatLng(51.52, -0.10))
	g.AppendWaypoint(geo.LatLng(51.52, -0.07))
	before := g.Waypoints()
	segments := g.Segments()

	bad := g.Serialize()
	bad.Links[0].To = "ghost"
	require.ErrorIs(t, g.Deserialize(bad), ErrCorruptedData)

	for _, w := range before {
		requireReleased(t, w)
	}
	for _, s := range segments {
		assert.False(t, s.Attached())
		assert.Zero(t, s.subs.Len())
	}
	assert.Zero(t, g.selected.Subscribers())
	assert.Zero(t, g.sequence.Len())

	// Strict rollback happens after the entities were attached.
	opts := quietOptions()
	opts.StrictSnapshots = true
	strict := New(opts)
	broken := Snapshot{
		EntityData: EntityData{ID: "g"},
		Markers: []MarkerData{
			{EntityData: EntityData{ID: "a"}, Index: 0, Position: geo.LatLng(51.50, -0.10), Usable: true},
			{EntityData: EntityData{ID: "b"}, Index: 5, Position: geo.LatLng(51.52, -0.10), Usable: true},
		},
		Links: []LinkData{},
	}
	require.ErrorIs(t, strict.Deserialize(broken), ErrCorruptedData)
	assert.Zero(t, strict.Len())
	assert.Zero(t, strict.selected.Subscribers())
	assert.Zero(t, strict.sequence.Len())
}
