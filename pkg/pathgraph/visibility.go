package pathgraph

// Hide removes every visual from the Surface and clears the selection.
// Logical state is untouched.
func (g *Graph) Hide() {
	g.selected.Set("")
	if !g.visible {
		return
	}
	g.visible = false

	for _, w := range g.insertionOrder() {
		g.surface.RemoveMarker(w.id)
	}
	for _, s := range g.Segments() {
		g.surface.RemovePolyline(s.id)
		s.hideAffordance()
	}
}

// Show puts every visual back, recomputing midpoint controls.
func (g *Graph) Show() {
	if g.visible {
		return
	}
	g.visible = true

	for _, w := range g.insertionOrder() {
		w.render()
	}
	for _, s := range g.Segments() {
		s.updateGeometry()
	}
}

// ToggleVisibility hides a visible graph or shows a hidden one and returns
// the new state.
func (g *Graph) ToggleVisibility() bool {
	if g.visible {
		g.Hide()
	} else {
		g.Show()
	}
	return g.visible
}
