package server

import (
	"ecosystem-server/internal/engine"
	"ecosystem-server/pkg/api"
	"ecosystem-server/pkg/logger"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client streams the tick reports of one ecosystem to a WebSocket watcher.
// Watchers only listen; anything they send is discarded.
type Client struct {
	Service      *engine.SimulationService
	Conn         *websocket.Conn
	EcosystemID  string
	Subscription string
	Send         <-chan api.TickReport

	done chan struct{}
	log  *logrus.Entry
}

// NewClient wraps an upgraded connection around an open hub subscription.
func NewClient(svc *engine.SimulationService, conn *websocket.Conn, ecosystemID, sub string, ch <-chan api.TickReport) *Client {
	return &Client{
		Service:      svc,
		Conn:         conn,
		EcosystemID:  ecosystemID,
		Subscription: sub,
		Send:         ch,
		done:         make(chan struct{}),
		log: logger.Log.WithFields(logrus.Fields{
			"component":    "ws_client",
			"ecosystem":    ecosystemID,
			"subscription": sub,
		}),
	}
}

// handleWS upgrades /ws?ecosystem=ID after checking the ecosystem exists.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("ecosystem")
	if _, err := s.Service.GetEcosystem(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Subscribe first so no report is missed once the handshake completes
	sub, ch := s.Service.Hub.Register(id)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Service.Hub.Unregister(id, sub)
		s.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := NewClient(s.Service, conn, id, sub, ch)
	client.log.Info("Watcher connected")

	go client.writePump()
	go client.readPump()
}

// readPump keeps the connection alive and notices when the watcher leaves.
func (c *Client) readPump() {
	defer func() {
		close(c.done)
		c.Service.Hub.Unregister(c.EcosystemID, c.Subscription)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Watcher disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WS error")
			}
			return
		}
	}
}

// writePump forwards reports to the watcher and pings it.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case report, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(report); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.done:
			return
		}
	}
}
