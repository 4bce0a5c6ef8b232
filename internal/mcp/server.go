package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/waypath/pkg/engine"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "waypath",
		Version: Version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "describe_path",
		Description: "Describe the current path: waypoints in order, their usability, selection and segments.",
	}, service.DescribePath)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_waypoint",
		Description: "Append a waypoint at the given coordinates to the end of the path.",
	}, service.AddWaypoint)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "delete_waypoint",
		Description: "Remove a waypoint by id. Its neighbours are reconnected.",
	}, service.DeleteWaypoint)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "select_waypoint",
		Description: "Select a waypoint by id, or deselect it if it is already selected.",
	}, service.SelectWaypoint)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "delete_selected",
		Description: "Remove the selected waypoint, if any.",
	}, service.DeleteSelected)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "set_selected_usable",
		Description: "Mark the selected waypoint as usable or unusable and clear the selection.",
	}, service.SetSelectedUsable)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "toggle_visibility",
		Description: "Hide the whole path if it is shown, show it if it is hidden.",
	}, service.ToggleVisibility)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "split_segment",
		Description: "Insert a new waypoint at the midpoint of a segment.",
	}, service.SplitSegment)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "save_path",
		Description: "Persist the path now instead of waiting for the next automatic save.",
	}, service.SavePath)

	return s
}
