// Package hub broadcasts Qibla bearing updates to WebSocket subscribers.
package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const sendBuffer = 256

// BearingUpdate is the wire message pushed to subscribers.
type BearingUpdate struct {
	Angle float64   `json:"qibla_angle"`
	At    time.Time `json:"at"`
}

// Hub maintains the set of active WebSocket clients and broadcasts bearing
// updates to them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	upgrader websocket.Upgrader
	log      zerolog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub. Run must be started in a goroutine before serving
// connections.
func New(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Run is the hub's main event loop. It owns the client set.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info().Int("total", total).Msg("bearing subscriber connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info().Int("total", total).Msg("bearing subscriber disconnected")

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Subscriber cannot keep up; drop it.
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastBearing pushes an angle to every connected subscriber. Safe to
// call from the engine's publish path; a full broadcast channel drops the
// update rather than blocking the sensor feed.
func (h *Hub) BroadcastBearing(angle float64) {
	msg, err := json.Marshal(BearingUpdate{Angle: angle, At: time.Now().UTC()})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal bearing update")
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Msg("broadcast channel full, dropping bearing update")
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a WebSocket connection and registers it
// with the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

// writePump forwards broadcast messages to the connection until the send
// channel closes.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames and unregisters the client when the
// connection drops.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
