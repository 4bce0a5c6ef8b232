package pathgraph

import (
	"github.com/sanonone/waypath/pkg/observable"
	"github.com/tidwall/btree"
)

type sequenceKey struct {
	index int
	id    string
}

func lessSequenceKey(a, b sequenceKey) bool {
	if a.index != b.index {
		return a.index < b.index
	}
	return a.id < b.id
}

func newSequenceIndex() *btree.BTreeG[sequenceKey] {
	return btree.NewBTreeGOptions(lessSequenceKey, btree.Options{NoLocks: true})
}

// trackSequence keeps w's entry in the sequence index current. The returned
// Disposer stops tracking and drops the entry.
func (g *Graph) trackSequence(w *Waypoint) observable.Disposer {
	var (
		last    int
		tracked bool
	)
	stop := w.index.Subscribe(func(i int) {
		if tracked {
			g.sequence.Delete(sequenceKey{index: last, id: w.id})
		}
		g.sequence.Set(sequenceKey{index: i, id: w.id})
		last, tracked = i, true
	})
	return func() {
		stop()
		if tracked {
			g.sequence.Delete(sequenceKey{index: last, id: w.id})
			tracked = false
		}
	}
}

// WaypointAt returns the waypoint with sequence index i. When several share
// the index (only possible after a permissive restore) the lowest id wins.
func (g *Graph) WaypointAt(i int) (*Waypoint, bool) {
	var found string
	g.sequence.Ascend(sequenceKey{index: i}, func(k sequenceKey) bool {
		if k.index == i {
			found = k.id
		}
		return false
	})
	if found == "" {
		return nil, false
	}
	return g.Waypoint(found)
}

// First returns the waypoint with the lowest index.
func (g *Graph) First() (*Waypoint, bool) {
	k, ok := g.sequence.Min()
	if !ok {
		return nil, false
	}
	return g.Waypoint(k.id)
}

// Last returns the waypoint with the highest index.
func (g *Graph) Last() (*Waypoint, bool) {
	k, ok := g.sequence.Max()
	if !ok {
		return nil, false
	}
	return g.Waypoint(k.id)
}
