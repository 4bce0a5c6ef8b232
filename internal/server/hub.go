package server

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sanonone/waypath/pkg/metrics"
	"github.com/sanonone/waypath/pkg/pathgraph"
	"github.com/sanonone/waypath/pkg/surface"
)

// Event types pushed to websocket clients.
const (
	EventScene            = "scene"
	EventMarkerPlace      = "marker.place"
	EventMarkerRemove     = "marker.remove"
	EventPolylinePlace    = "polyline.place"
	EventPolylineRemove   = "polyline.remove"
	EventAffordancePlace  = "affordance.place"
	EventAffordanceRemove = "affordance.remove"
	EventZoom             = "zoom"
	EventResult           = "result"
	EventError            = "error"
)

// Event is one message from the server to a rendering client. Place and
// remove events are idempotent upserts and deletes keyed by id, so a client
// may apply one twice.
type Event struct {
	Type       string                    `json:"type"`
	ID         string                    `json:"id,omitempty"`
	Marker     *pathgraph.MarkerView     `json:"marker,omitempty"`
	Polyline   *pathgraph.PolylineView   `json:"polyline,omitempty"`
	Affordance *pathgraph.AffordanceView `json:"affordance,omitempty"`
	Zoom       *float64                  `json:"zoom,omitempty"`
	Scene      *surface.Scene            `json:"scene,omitempty"`
	Action     string                    `json:"action,omitempty"`
	Result     any                       `json:"result,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

const clientBuffer = 256

type client struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub is a pathgraph.Surface that forwards every drawing call to the
// connected websocket clients. It never blocks the caller: a client whose
// buffer is full is disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	zoom    float64

	// scene supplies the full current state sent on connect.
	scene  func() surface.Scene
	logger *slog.Logger
}

var _ pathgraph.Surface = (*Hub)(nil)

func NewHub(zoom float64, scene func() surface.Scene, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		zoom:    zoom,
		scene:   scene,
		logger:  logger.With("component", "hub"),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// register adds conn and queues the current scene as its first event.
// Holding the lock while the scene is taken means no broadcast can slip
// between the two.
func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan Event, clientBuffer)}

	h.mu.Lock()
	if h.scene != nil {
		sc := h.scene()
		c.send <- Event{Type: EventScene, Scene: &sc}
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SurfaceClients.Set(float64(n))
	h.logger.Info("surface client connected", "remote", conn.RemoteAddr().String(), "clients", n)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.close()
	if ok {
		metrics.SurfaceClients.Set(float64(n))
		h.logger.Info("surface client disconnected", "remote", c.conn.RemoteAddr().String(), "clients", n)
	}
}

// reply queues ev for a single client.
func (h *Hub) reply(c *client, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- ev:
	default:
		h.dropLocked(c)
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.dropLocked(c)
		}
	}
}

func (h *Hub) dropLocked(c *client) {
	delete(h.clients, c)
	c.close()
	metrics.SurfaceClients.Set(float64(len(h.clients)))
	h.logger.Warn("dropping slow surface client", "remote", c.conn.RemoteAddr().String())
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	metrics.SurfaceClients.Set(0)
}

// Zoom returns the zoom last reported by the host.
func (h *Hub) Zoom() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.zoom
}

// SetZoom records the zoom and tells every client.
func (h *Hub) SetZoom(z float64) {
	h.mu.Lock()
	h.zoom = z
	h.mu.Unlock()
	h.broadcast(Event{Type: EventZoom, Zoom: &z})
}

// PlaceMarker broadcasts a new or redrawn marker.
func (h *Hub) PlaceMarker(v pathgraph.MarkerView) {
	h.broadcast(Event{Type: EventMarkerPlace, ID: v.ID, Marker: &v})
}

// RemoveMarker broadcasts the removal of a marker.
func (h *Hub) RemoveMarker(id string) {
	h.broadcast(Event{Type: EventMarkerRemove, ID: id})
}

// PlacePolyline broadcasts a new or redrawn segment line.
func (h *Hub) PlacePolyline(v pathgraph.PolylineView) {
	h.broadcast(Event{Type: EventPolylinePlace, ID: v.ID, Polyline: &v})
}

// RemovePolyline broadcasts the removal of a segment line.
func (h *Hub) RemovePolyline(id string) {
	h.broadcast(Event{Type: EventPolylineRemove, ID: id})
}

// PlaceAffordance broadcasts a midpoint control, keyed by its segment.
func (h *Hub) PlaceAffordance(v pathgraph.AffordanceView) {
	h.broadcast(Event{Type: EventAffordancePlace, ID: v.SegmentID, Affordance: &v})
}

// RemoveAffordance broadcasts the removal of a midpoint control.
func (h *Hub) RemoveAffordance(segmentID string) {
	h.broadcast(Event{Type: EventAffordanceRemove, ID: segmentID})
}
