package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sanonone/waypath/pkg/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 64 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleWebSocket attaches a rendering client. The server pushes the
// current scene and then every drawing change; the client sends Intents.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", "error", err)
		return
	}

	c := s.hub.register(conn)
	done := make(chan struct{})
	go s.writePump(c, done)

	s.readPump(c)
	s.hub.unregister(c)
	<-done
}

func (s *Server) readPump(c *client) {
	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in engine.Intent
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		res, err := s.Engine.Apply(in)
		if err != nil {
			s.hub.reply(c, Event{Type: EventError, Action: in.Action, ID: in.ID, Error: err.Error()})
			continue
		}
		s.hub.reply(c, Event{Type: EventResult, Action: in.Action, ID: in.ID, Result: res})
	}
}

// writePump owns all writes on the connection. It exits when the send
// channel is closed, which also closes the connection.
func (s *Server) writePump(c *client, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(done)
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				s.logger.Warn("failed to write websocket JSON", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
