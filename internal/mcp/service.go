package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/waypath/pkg/engine"
	"github.com/sanonone/waypath/pkg/geo"
)

type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// --- Tool Handlers ---

func (s *Service) AddWaypoint(ctx context.Context, req *mcp.CallToolRequest, args AddWaypointArgs) (*mcp.CallToolResult, WaypointResult, error) {
	info, err := s.engine.AddWaypoint(geo.LatLng(args.Lat, args.Lng))
	if err != nil {
		return nil, WaypointResult{}, err
	}
	return nil, WaypointResult{Waypoint: info}, nil
}

func (s *Service) DeleteWaypoint(ctx context.Context, req *mcp.CallToolRequest, args WaypointIDArgs) (*mcp.CallToolResult, ChangedResult, error) {
	if err := s.engine.DeleteWaypoint(args.ID); err != nil {
		return nil, ChangedResult{}, err
	}
	return nil, ChangedResult{Changed: true}, nil
}

func (s *Service) SelectWaypoint(ctx context.Context, req *mcp.CallToolRequest, args WaypointIDArgs) (*mcp.CallToolResult, WaypointResult, error) {
	info, err := s.engine.SelectWaypoint(args.ID)
	if err != nil {
		return nil, WaypointResult{}, err
	}
	return nil, WaypointResult{Waypoint: info}, nil
}

func (s *Service) DeleteSelected(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, ChangedResult, error) {
	return nil, ChangedResult{Changed: s.engine.DeleteSelected()}, nil
}

func (s *Service) SetSelectedUsable(ctx context.Context, req *mcp.CallToolRequest, args SetUsableArgs) (*mcp.CallToolResult, ChangedResult, error) {
	return nil, ChangedResult{Changed: s.engine.SetSelectedUsable(args.Usable)}, nil
}

func (s *Service) ToggleVisibility(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, VisibilityResult, error) {
	return nil, VisibilityResult{Visible: s.engine.ToggleVisibility()}, nil
}

func (s *Service) SplitSegment(ctx context.Context, req *mcp.CallToolRequest, args SplitSegmentArgs) (*mcp.CallToolResult, WaypointResult, error) {
	var (
		info engine.WaypointInfo
		err  error
	)
	if args.Force {
		info, err = s.engine.SplitSegment(args.SegmentID)
	} else {
		info, err = s.engine.ActivateAffordance(args.SegmentID)
	}
	if err != nil {
		return nil, WaypointResult{}, err
	}
	return nil, WaypointResult{Waypoint: info}, nil
}

func (s *Service) DescribePath(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, DescribeResult, error) {
	p := s.engine.Path()
	return nil, DescribeResult{Description: describe(p), Path: p}, nil
}

func (s *Service) SavePath(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, SaveResult, error) {
	if err := s.engine.Save(ctx); err != nil {
		return nil, SaveResult{}, fmt.Errorf("save failed: %w", err)
	}
	return nil, SaveResult{Status: "saved"}, nil
}

// describe renders the path as lines an LLM can read, e.g.
//
//	0. a1b2 (51.500000, -0.100000) usable
//	   -> segment c3d4 (affordance)
func describe(p engine.PathInfo) string {
	if len(p.Waypoints) == 0 {
		return "The path is empty."
	}

	segs := make(map[string]engine.SegmentInfo, len(p.Segments))
	for _, s := range p.Segments {
		segs[s.ID] = s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Path %s: %d waypoints, %d segments", p.ID, len(p.Waypoints), len(p.Segments))
	if !p.Visible {
		b.WriteString(", hidden")
	}
	b.WriteString(".\n")

	for _, w := range p.Waypoints {
		state := "usable"
		if !w.Usable {
			state = "unusable"
		}
		if w.Selected {
			state += ", selected"
		}
		fmt.Fprintf(&b, "%d. %s %s %s\n", w.Index, w.ID, w.Position, state)

		if s, ok := segs[w.Outgoing]; ok {
			fmt.Fprintf(&b, "   -> segment %s", s.ID)
			if s.HasAffordance {
				b.WriteString(" (affordance)")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
