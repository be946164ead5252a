package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polyfolio/pnl-data/internal/metrics"
	"github.com/polyfolio/pnl-data/internal/model"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	defaultPingPeriod = 30 * time.Second
	sendBuffer        = 64
)

// UpdateMessage is the JSON message pushed to websocket clients each
// time a reconciliation for a watched address completes.
type UpdateMessage struct {
	Type           string    `json:"type"`
	Address        string    `json:"address"`
	RealizedPnl    string    `json:"realizedPnl"`
	UnrealizedPnl  string    `json:"unrealizedPnl"`
	TotalPnl       string    `json:"totalPnl"`
	PortfolioValue string    `json:"portfolioValue"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// client is one websocket subscriber. All writes to the connection go
// through writePump, the connection's single writer goroutine; the hub
// only ever enqueues onto send.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages websocket connections and fans reconciliation updates
// out to every connected client. The clients map is owned by the Run
// goroutine; registration, removal, and broadcast all funnel through
// its channels.
type Hub struct {
	logger     *slog.Logger
	pingPeriod time.Duration
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

// NewHub creates a websocket hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger,
		pingPeriod: defaultPingPeriod,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run starts the hub's event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			h.logger.Info("ws client connected", "total", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			metrics.WebSocketClients.Set(float64(len(h.clients)))

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer: drop the client, not the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// BroadcastResult pushes a completed reconciliation to all clients.
func (h *Hub) BroadcastResult(result *model.ReconciliationResult) {
	msg := UpdateMessage{
		Type:           "pnl_update",
		Address:        result.Address,
		RealizedPnl:    result.RealizedPnl.StringFixed(2),
		UnrealizedPnl:  result.UnrealizedPnl.StringFixed(2),
		TotalPnl:       result.TotalPnl.StringFixed(2),
		PortfolioValue: result.PortfolioValue.StringFixed(2),
		GeneratedAt:    result.GeneratedAt,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// Drop if buffer full to avoid blocking reconciliation.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleWS handles websocket upgrade requests at GET /api/v1/ws.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writePump(h.pingPeriod)
	go h.readPump(c)
}

// writePump drains the client's send channel. It is the connection's
// only writer, so broadcast messages and keepalive pings cannot
// interleave on the wire.
func (c *client) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() { h.unregister <- c }()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
