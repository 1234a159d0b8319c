package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsEvent mirrors the SSE framing as a single JSON message.
type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// handleWS serves the same event feed as /stream over a websocket, for
// clients that cannot hold an SSE connection open.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("httpapi: websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(id)

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(wsEvent{Event: ev.Name, Data: ev.Data}); err != nil {
				slog.Debug("httpapi: websocket client gone", "id", id, "error", err)
				return
			}
		}
	}
}
