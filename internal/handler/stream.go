package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/service"
	"github.com/tapeball/cricket-scoring-service/internal/stream"
	"github.com/tapeball/cricket-scoring-service/pkg/response"
)

const (
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// StreamHandler upgrades a match stream request and feeds the connection
// from the hub: one snapshot on connect, then one message per committed
// change to that match.
type StreamHandler struct {
	svc service.MatchService
	hub *stream.Hub
}

func NewStreamHandler(svc service.MatchService, hub *stream.Hub) *StreamHandler {
	return &StreamHandler{svc: svc, hub: hub}
}

func (h *StreamHandler) Register(r *gin.RouterGroup) {
	r.GET("/matches/:match_id/stream", h.stream)
}

func (h *StreamHandler) stream(c *gin.Context) {
	matchID := c.Param("match_id")

	// the match must exist before we hold a connection open for it
	m, err := h.svc.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	// Subscribe before the upgrade so a commit racing the handshake is
	// queued rather than lost.
	updates, cancel := h.hub.Subscribe(matchID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cancel()
		return
	}

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, m, updates, done)

	cancel()
	conn.Close()
}

// writePump sends the initial snapshot, then drains hub updates until the
// reader reports the peer gone. It runs on the handler goroutine.
func writePump(conn *websocket.Conn, initial *model.Match, updates <-chan *model.Match, done <-chan struct{}) {
	if !writeSnapshot(conn, initial) {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case m, ok := <-updates:
			if !ok {
				return
			}
			if !writeSnapshot(conn, m) {
				return
			}
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, m *model.Match) bool {
	data, err := json.Marshal(m)
	if err != nil {
		return false
	}
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteMessage(websocket.TextMessage, data) == nil
}

// readPump keeps the connection alive by consuming pongs and close frames;
// clients are not expected to send anything upstream.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
