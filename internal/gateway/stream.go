package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// keepAliveInterval spaces out SSE comment lines and WebSocket pings so
	// idle streams survive proxies that reap quiet connections.
	keepAliveInterval = 30 * time.Second

	wsWriteWait = 10 * time.Second
)

// handleEventStream streams conversation events to the browser over SSE.
// Each connection owns a dedicated broker subscription that is released
// when the client disconnects.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, err := s.relay.Subscribe(sess)
	if err != nil {
		s.log.Error().Err(err).Msg("subscribe failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "event: start\ndata: {}\n\n")
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case d, open := <-sub.C():
			if !open {
				return
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", d.Payload)
			flusher.Flush()
		}
	}
}

// wsFrame is the envelope for WebSocket stream frames, mirroring the SSE
// event/data shape.
type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// handleWebSocket mirrors the SSE stream over a WebSocket connection for
// clients that prefer it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub, err := s.relay.Subscribe(sess)
	if err != nil {
		s.log.Error().Err(err).Msg("subscribe failed")
		return
	}
	defer sub.Close()

	// Drain client frames so close/ping control messages are processed;
	// any read error means the peer is gone.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeFrame(conn, wsFrame{Event: "start", Data: json.RawMessage("{}")}); err != nil {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-done:
			return
		case <-keepAlive.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case d, open := <-sub.C():
			if !open {
				return
			}
			if err := writeFrame(conn, wsFrame{Event: "message", Data: d.Payload}); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, frame wsFrame) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(frame)
}
