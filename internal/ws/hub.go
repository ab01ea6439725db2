// Package ws pushes light and bridge events to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jmylchreest/hued/internal/events"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Clients only send control frames.
	maxMessageSize = 512

	sendBufferSize = 64
)

// ErrHubClosed is returned by Attach once the hub has shut down
var ErrHubClosed = errors.New("ws: hub closed")

// Client is one WebSocket connection with its own bus subscription.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	types []events.EventType
	send  chan []byte
	done  chan struct{}
	stop  sync.Once
}

// Wants reports whether the client asked for events of type t. A client
// without a filter receives everything.
func (c *Client) Wants(t events.EventType) bool {
	return len(c.types) == 0 || slices.Contains(c.types, t)
}

// deliver queues e for the write pump. A client whose queue is full is
// dropped rather than stalling the publisher.
func (c *Client) deliver(e events.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		c.hub.logger.Error("ws: failed to encode event", "type", e.Type, "error", err)
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.hub.logger.Warn("ws: client too slow, disconnecting", "type", e.Type)
		go c.hub.detach(c)
	}
}

// Hub tracks the connected clients. Each client subscribes to the bus for the
// event types it asked for.
type Hub struct {
	logger  *slog.Logger
	bus     *events.Bus
	mu      sync.Mutex
	clients map[*Client]func()
	closed  bool
}

// NewHub creates a Hub fed by bus.
func NewHub(logger *slog.Logger, bus *events.Bus) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		bus:     bus,
		clients: make(map[*Client]func()),
	}
}

// Run blocks until ctx is done, then disconnects every client. Clients
// attaching afterwards are refused.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("ws: hub started")
	<-ctx.Done()

	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.detach(c)
	}
	h.logger.Info("ws: hub stopped", "disconnected", len(clients))
}

// NewClient creates a client for conn receiving only the given event types,
// or all of them when none are given. It is not attached yet.
func (h *Hub) NewClient(conn *websocket.Conn, types ...events.EventType) *Client {
	return &Client{
		hub:   h,
		conn:  conn,
		types: slices.Clone(types),
		send:  make(chan []byte, sendBufferSize),
		done:  make(chan struct{}),
	}
}

// Attach subscribes c to the bus and starts counting it as connected
func (h *Hub) Attach(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.clients[c] = h.bus.SubscribeTypes(c.deliver, c.types...)
	h.logger.Info("ws: client connected", "clients", len(h.clients), "types", c.types)
	return nil
}

// detach unsubscribes c and signals its pumps to stop. Safe to call more
// than once.
func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	unsub, ok := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		unsub()
		h.logger.Info("ws: client disconnected", "clients", count)
	}
	c.stop.Do(func() { close(c.done) })
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// writePump sends queued events and keepalive pings until the client is
// detached or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case <-c.done:
			write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case msg := <-c.send:
			if err := write(websocket.TextMessage, msg); err != nil {
				c.hub.detach(c)
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				c.hub.detach(c)
				return
			}
		}
	}
}

// readPump processes control frames and detaches the client when the peer
// goes away. Data frames are discarded.
func (c *Client) readPump() {
	defer c.hub.detach(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("ws: read error", "error", err)
			}
			return
		}
	}
}
