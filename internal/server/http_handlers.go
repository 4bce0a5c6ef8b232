package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sanonone/waypath/pkg/engine"
	"github.com/sanonone/waypath/pkg/pathgraph"
)

const maxBodyBytes = 4 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /path", s.handleGetPath)
	mux.HandleFunc("PUT /path", s.handlePutPath)

	mux.HandleFunc("GET /path/waypoints", s.handleListWaypoints)
	mux.HandleFunc("POST /path/waypoints", s.handleAddWaypoint)
	mux.HandleFunc("GET /path/waypoints/{id}", s.handleGetWaypoint)
	mux.HandleFunc("DELETE /path/waypoints/{id}", s.handleDeleteWaypoint)
	mux.HandleFunc("PUT /path/waypoints/{id}/position", s.handleMoveWaypoint)
	mux.HandleFunc("PUT /path/waypoints/{id}/usable", s.handleSetWaypointUsable)
	mux.HandleFunc("POST /path/waypoints/{id}/select", s.handleSelectWaypoint)

	mux.HandleFunc("POST /path/segments/{id}/split", s.handleSplitSegment)

	mux.HandleFunc("DELETE /path/selection", s.handleDeleteSelected)
	mux.HandleFunc("PUT /path/selection/usable", s.handleSetSelectedUsable)

	mux.HandleFunc("PUT /path/visibility", s.handleSetVisibility)
	mux.HandleFunc("PUT /path/zoom", s.handleSetZoom)

	mux.HandleFunc("POST /system/save", s.handleSave)

	if s.hub != nil {
		mux.HandleFunc("GET /ws", s.handleWebSocket)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// --- Path ---

func (s *Server) handleGetPath(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Snapshot())
}

// handlePutPath replaces the whole path with the posted snapshot. The body
// is checked against the snapshot schema before it reaches the graph.
func (s *Server) handlePutPath(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}
	snap, err := pathgraph.DecodeSnapshot(data)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if err := s.Engine.Restore(snap); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Path())
}

// --- Waypoints ---

func (s *Server) handleListWaypoints(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Engine.Path())
}

func (s *Server) handleAddWaypoint(w http.ResponseWriter, r *http.Request) {
	var req WaypointRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	info, err := s.Engine.AddWaypoint(*req.Position)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, info)
}

func (s *Server) handleGetWaypoint(w http.ResponseWriter, r *http.Request) {
	info, err := s.Engine.Waypoint(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

func (s *Server) handleDeleteWaypoint(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.DeleteWaypoint(r.PathValue("id")); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{Status: "OK"})
}

func (s *Server) handleMoveWaypoint(w http.ResponseWriter, r *http.Request) {
	var req WaypointRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	if err := s.Engine.MoveWaypoint(id, *req.Position); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.respondWaypoint(w, id)
}

func (s *Server) handleSetWaypointUsable(w http.ResponseWriter, r *http.Request) {
	var req UsableRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	if err := s.Engine.SetWaypointUsable(id, *req.Usable); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.respondWaypoint(w, id)
}

func (s *Server) handleSelectWaypoint(w http.ResponseWriter, r *http.Request) {
	info, err := s.Engine.SelectWaypoint(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

// handleSplitSegment activates the midpoint affordance of a segment. With
// ?force=true the segment is split even when no affordance is shown.
func (s *Server) handleSplitSegment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeHTTPError(w, http.StatusBadRequest, "force must be a boolean")
			return
		}
		force = b
	}

	var (
		info engine.WaypointInfo
		err  error
	)
	if force {
		info, err = s.Engine.SplitSegment(id)
	} else {
		info, err = s.Engine.ActivateAffordance(id)
	}
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, info)
}

// --- Selection, visibility, zoom ---

func (s *Server) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, ChangedResponse{Changed: s.Engine.DeleteSelected()})
}

func (s *Server) handleSetSelectedUsable(w http.ResponseWriter, r *http.Request) {
	var req UsableRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, ChangedResponse{Changed: s.Engine.SetSelectedUsable(*req.Usable)})
}

func (s *Server) handleSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.Engine.SetVisible(*req.Visible)
	s.writeHTTPResponse(w, http.StatusOK, VisibilityResponse{Visible: *req.Visible})
}

func (s *Server) handleSetZoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.Engine.SetZoom(*req.Zoom); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, ZoomResponse{Zoom: *req.Zoom})
}

// --- System ---

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Save(r.Context()); err != nil {
		s.logger.Error("save via HTTP failed", "error", err)
		s.writeHTTPError(w, http.StatusInternalServerError, fmt.Sprintf("save failed: %v", err))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{Status: "OK", Message: "path saved"})
}

// --- Helpers ---

func (s *Server) respondWaypoint(w http.ResponseWriter, id string) {
	info, err := s.Engine.Waypoint(id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, info)
}

// decodeBody reads a JSON body into v and validates it. On failure it
// writes a 400 and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	if err := validate.Struct(v); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// statusFor maps engine and graph errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pathgraph.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pathgraph.ErrNoAffordance), errors.Is(err, engine.ErrZoomUnsupported):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidArgument), errors.Is(err, pathgraph.ErrCorruptedData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeHTTPError(w, status, err.Error())
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, ErrorResponse{Error: message})
}
