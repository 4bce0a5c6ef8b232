package engine

import (
	"errors"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/pathgraph"
)

var (
	// ErrInvalidArgument reports a malformed position, zoom or intent.
	ErrInvalidArgument = errors.New("engine: invalid argument")

	// ErrZoomUnsupported is returned by SetZoom when the Surface has a fixed zoom.
	ErrZoomUnsupported = errors.New("engine: surface zoom cannot be changed")
)

// WaypointInfo is a copy of a waypoint's state, safe to use outside the lock.
type WaypointInfo struct {
	ID       string          `json:"id"`
	Index    int             `json:"index"`
	Position geo.Position    `json:"position"`
	Usable   bool            `json:"usable"`
	Selected bool            `json:"selected"`
	Color    pathgraph.Color `json:"color"`
	Incoming string          `json:"incoming,omitempty"`
	Outgoing string          `json:"outgoing,omitempty"`
}

// SegmentInfo is a copy of a segment's state.
type SegmentInfo struct {
	ID            string          `json:"id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Color         pathgraph.Color `json:"color"`
	Midpoint      geo.Position    `json:"midpoint"`
	PixelLength   float64         `json:"pixel_length"`
	HasAffordance bool            `json:"has_affordance"`
}

// PathInfo describes the whole path. Waypoints are in sequence order and
// segments in insertion order.
type PathInfo struct {
	ID        string         `json:"id"`
	Visible   bool           `json:"visible"`
	Zoom      float64        `json:"zoom"`
	Selected  string         `json:"selected,omitempty"`
	Waypoints []WaypointInfo `json:"waypoints"`
	Segments  []SegmentInfo  `json:"segments"`
}

func waypointInfo(w *pathgraph.Waypoint) WaypointInfo {
	return WaypointInfo{
		ID:       w.ID(),
		Index:    w.Index(),
		Position: w.Position(),
		Usable:   w.Usable(),
		Selected: w.Selected(),
		Color:    w.Color(),
		Incoming: w.IncomingID(),
		Outgoing: w.OutgoingID(),
	}
}

func segmentInfo(s *pathgraph.Segment) SegmentInfo {
	info := SegmentInfo{
		ID:            s.ID(),
		From:          s.FromID(),
		To:            s.ToID(),
		Color:         s.Color(),
		HasAffordance: s.HasAffordance(),
	}
	if mid, err := s.Midpoint(); err == nil {
		info.Midpoint = mid
	}
	if px, err := s.PixelLength(); err == nil {
		info.PixelLength = px
	}
	return info
}

func pathInfo(g *pathgraph.Graph) PathInfo {
	info := PathInfo{
		ID:        g.ID(),
		Visible:   g.Visible(),
		Zoom:      g.Surface().Zoom(),
		Selected:  g.SelectedID(),
		Waypoints: make([]WaypointInfo, 0, g.Len()),
		Segments:  make([]SegmentInfo, 0, g.SegmentCount()),
	}
	for _, w := range g.Waypoints() {
		info.Waypoints = append(info.Waypoints, waypointInfo(w))
	}
	for _, s := range g.Segments() {
		info.Segments = append(info.Segments, segmentInfo(s))
	}
	return info
}
