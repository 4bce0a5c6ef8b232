// Package client provides a Go client for the waypath HTTP API.
//
// It covers every editing action of the server: adding, moving, selecting
// and removing waypoints, splitting segments, toggling usability and
// visibility, changing the zoom, and reading or replacing the whole path.
//
// The client handles HTTP communication, JSON serialization and
// standardized error handling.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sanonone/waypath/pkg/geo"
	"github.com/sanonone/waypath/pkg/pathgraph"
)

// --- Custom Errors ---

// APIError represents an error returned by the waypath API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

// Waypoint is the server's view of one waypoint.
type Waypoint struct {
	ID       string          `json:"id"`
	Index    int             `json:"index"`
	Position geo.Position    `json:"position"`
	Usable   bool            `json:"usable"`
	Selected bool            `json:"selected"`
	Color    pathgraph.Color `json:"color"`
	Incoming string          `json:"incoming,omitempty"`
	Outgoing string          `json:"outgoing,omitempty"`
}

// Segment is the server's view of one segment.
type Segment struct {
	ID            string          `json:"id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Color         pathgraph.Color `json:"color"`
	Midpoint      geo.Position    `json:"midpoint"`
	PixelLength   float64         `json:"pixel_length"`
	HasAffordance bool            `json:"has_affordance"`
}

// Path lists waypoints in sequence order and segments in insertion order.
type Path struct {
	ID        string     `json:"id"`
	Visible   bool       `json:"visible"`
	Zoom      float64    `json:"zoom"`
	Selected  string     `json:"selected,omitempty"`
	Waypoints []Waypoint `json:"waypoints"`
	Segments  []Segment  `json:"segments"`
}

type changedResponse struct {
	Changed bool `json:"changed"`
}

// --- Client ---

// Client is the Go client for a waypath server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for http://host:port. apiKey may be empty.
func New(host string, port int, apiKey string) *Client {
	return NewFromURL(fmt.Sprintf("http://%s:%d", host, port), apiKey)
}

// NewFromURL creates a client for a full base URL such as
// "https://maps.example.com".
func NewFromURL(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// jsonRequest executes a request and returns the body of a successful
// response. Any status >= 400 becomes an *APIError.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	switch p := payload.(type) {
	case nil:
	case []byte:
		reqBody = bytes.NewReader(p)
	default:
		jsonData, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

// call runs jsonRequest and decodes the response into out.
func (c *Client) call(method, endpoint string, payload, out any) error {
	respBody, err := c.jsonRequest(method, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid JSON response for %s %s: %w", method, endpoint, err)
	}
	return nil
}

func waypointPath(id, suffix string) string {
	return "/path/waypoints/" + url.PathEscape(id) + suffix
}

// --- Path ---

// Path returns the current path.
func (c *Client) Path() (*Path, error) {
	var p Path
	if err := c.call(http.MethodGet, "/path/waypoints", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Snapshot returns the serialized path.
func (c *Client) Snapshot() (*pathgraph.Snapshot, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/path", nil)
	if err != nil {
		return nil, err
	}
	snap, err := pathgraph.DecodeSnapshot(respBody)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Restore replaces the server's path with snap.
func (c *Client) Restore(snap pathgraph.Snapshot) (*Path, error) {
	data, err := pathgraph.EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	var p Path
	if err := c.call(http.MethodPut, "/path", data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- Waypoints ---

// AddWaypoint appends a waypoint at pos.
func (c *Client) AddWaypoint(pos geo.Position) (*Waypoint, error) {
	var w Waypoint
	if err := c.call(http.MethodPost, "/path/waypoints", map[string]any{"position": pos}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Waypoint fetches one waypoint.
func (c *Client) Waypoint(id string) (*Waypoint, error) {
	var w Waypoint
	if err := c.call(http.MethodGet, waypointPath(id, ""), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWaypoint removes a waypoint and reconnects its neighbours.
func (c *Client) DeleteWaypoint(id string) error {
	return c.call(http.MethodDelete, waypointPath(id, ""), nil, nil)
}

// MoveWaypoint sets a waypoint's position.
func (c *Client) MoveWaypoint(id string, pos geo.Position) (*Waypoint, error) {
	var w Waypoint
	if err := c.call(http.MethodPut, waypointPath(id, "/position"), map[string]any{"position": pos}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// SetWaypointUsable sets a waypoint's usability and clears the selection.
func (c *Client) SetWaypointUsable(id string, usable bool) (*Waypoint, error) {
	var w Waypoint
	if err := c.call(http.MethodPut, waypointPath(id, "/usable"), map[string]any{"usable": usable}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// SelectWaypoint toggles the selection of a waypoint.
func (c *Client) SelectWaypoint(id string) (*Waypoint, error) {
	var w Waypoint
	if err := c.call(http.MethodPost, waypointPath(id, "/select"), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// SplitSegment inserts a waypoint at the midpoint of a segment. Without
// force the server requires the segment's insert affordance to be shown.
func (c *Client) SplitSegment(segmentID string, force bool) (*Waypoint, error) {
	endpoint := "/path/segments/" + url.PathEscape(segmentID) + "/split"
	if force {
		endpoint += "?force=true"
	}
	var w Waypoint
	if err := c.call(http.MethodPost, endpoint, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// --- Selection, visibility, zoom ---

// DeleteSelected removes the selected waypoint and reports whether there was one.
func (c *Client) DeleteSelected() (bool, error) {
	var resp changedResponse
	if err := c.call(http.MethodDelete, "/path/selection", nil, &resp); err != nil {
		return false, err
	}
	return resp.Changed, nil
}

// SetSelectedUsable sets the selected waypoint's usability.
func (c *Client) SetSelectedUsable(usable bool) (bool, error) {
	var resp changedResponse
	if err := c.call(http.MethodPut, "/path/selection/usable", map[string]any{"usable": usable}, &resp); err != nil {
		return false, err
	}
	return resp.Changed, nil
}

func (c *Client) SetVisible(visible bool) error {
	return c.call(http.MethodPut, "/path/visibility", map[string]any{"visible": visible}, nil)
}

func (c *Client) SetZoom(zoom float64) error {
	return c.call(http.MethodPut, "/path/zoom", map[string]any{"zoom": zoom}, nil)
}

// --- System ---

// Save asks the server to persist the path now.
func (c *Client) Save() error {
	return c.call(http.MethodPost, "/system/save", nil, nil)
}

// Healthz reports whether the server is up.
func (c *Client) Healthz() error {
	return c.call(http.MethodGet, "/healthz", nil, nil)
}
