package mcp

import "github.com/sanonone/waypath/pkg/engine"

// --- Tool Arguments ---

type EmptyArgs struct{}

type AddWaypointArgs struct {
	Lat float64 `json:"lat" jsonschema:"Latitude in degrees, between -90 and 90"`
	Lng float64 `json:"lng" jsonschema:"Longitude in degrees, between -180 and 180"`
}

type WaypointIDArgs struct {
	ID string `json:"id" jsonschema:"The waypoint id as returned by describe_path"`
}

type SetUsableArgs struct {
	Usable bool `json:"usable" jsonschema:"Whether the selected waypoint can be reached"`
}

type SplitSegmentArgs struct {
	SegmentID string `json:"segment_id" jsonschema:"The segment to split at its midpoint"`
	Force     bool   `json:"force,omitempty" jsonschema:"Split even when the segment is too short on screen to show an insert control"`
}

// --- Tool Results ---

type WaypointResult struct {
	Waypoint engine.WaypointInfo `json:"waypoint"`
}

type ChangedResult struct {
	Changed bool `json:"changed"`
}

type VisibilityResult struct {
	Visible bool `json:"visible"`
}

type DescribeResult struct {
	// Description is a plain-text rendering for the model.
	Description string          `json:"description"`
	Path        engine.PathInfo `json:"path"`
}

type SaveResult struct {
	Status string `json:"status"`
}
