// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// per-client queue; a client this far behind is disconnected
	sendBuffer = 32
)

// InitialFunc builds the initial-data payload for a new subscriber
type InitialFunc func() models.InitialData

// Hub fans events out to connected display clients over WebSocket
type Hub struct {
	initial  InitialFunc
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(initial InitialFunc) *Hub {
	return &Hub{
		initial: initial,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// display sites are served from other origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and sends initial-data before any
// vote-update can reach the new client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	msg, err := encode(models.EventInitialData, h.initial())
	if err != nil {
		h.mu.Unlock()
		slog.Error("failed to encode initial data", "error", err)
		conn.Close()
		return
	}
	c.send <- msg
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.Subscribers.Set(float64(count))
	metrics.BroadcastsTotal.WithLabelValues(models.EventInitialData).Inc()
	slog.Info("subscriber connected", "client_id", c.id, "remote", r.RemoteAddr, "subscribers", count)

	go h.writePump(c)
	h.readPump(c)
}

// Publish sends an event to every subscriber. Clients whose queue is full
// are dropped rather than blocking the publisher.
func (h *Hub) Publish(event string, data any) {
	h.PublishFunc(event, func() any { return data })
}

// PublishFunc builds the payload while holding the subscriber lock, the same
// lock initial-data is built under. A client therefore never receives an
// update built from state older than its initial-data.
func (h *Hub) PublishFunc(event string, build func() any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg, err := encode(event, build())
	if err != nil {
		slog.Error("failed to encode event", "event", event, "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slog.Warn("dropping slow subscriber", "client_id", c.id)
			h.removeLocked(c)
		}
	}
	metrics.BroadcastsTotal.WithLabelValues(event).Inc()
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes the send queue; writePump then closes the connection
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.Subscribers.Set(float64(len(h.clients)))
	slog.Info("subscriber disconnected", "client_id", c.id, "subscribers", len(h.clients))
}

// readPump discards client messages and notices disconnects
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(models.Event{Event: event, Data: data})
}
