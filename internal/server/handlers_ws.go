package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Rathna12Thyagu/stake-tracker/internal/feed"
	"github.com/Rathna12Thyagu/stake-tracker/internal/logging"
	"github.com/Rathna12Thyagu/stake-tracker/internal/metrics"
)

const writeDeadline = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Dashboard may be served from another host
	},
}

// wsSender adapts a gorilla connection to the feed.Sender contract.
type wsSender struct {
	conn *websocket.Conn
}

func (w *wsSender) SendText(frame string) error {
	start := time.Now()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := w.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return err
	}
	metrics.WebSocketFrameSendDuration.Observe(time.Since(start).Seconds())
	return nil
}

// handleWebSocket runs one feed loop per connection. The loop owns its own
// last-known price; closing the browser tab ends the loop via the read pump.
func (s *Server) handleWebSocket(c echo.Context) error {
	if !s.limiter.Acquire() {
		metrics.WebSocketRejectedConnectionsTotal.Inc()
		return c.String(503, "Too many connections")
	}
	defer s.limiter.Release()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	log := logging.WithConnection(connectionID)
	log.Info("Client connected", "remote", c.RealIP())

	metrics.WebSocketConnectedClients.Inc()
	defer metrics.WebSocketConnectedClients.Dec()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Read pump - cancels the feed loop the moment the client goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	stream := feed.NewStream(s.source, s.tracker, s.clock, s.config.PollInterval, s.config.FetchTimeout, log)
	stream.Run(ctx, &wsSender{conn: conn})

	log.Info("Client disconnected")
	return nil
}
