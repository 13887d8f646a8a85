package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/udisondev/squadfall/internal/game/event"
	"github.com/udisondev/squadfall/internal/model"
)

const (
	sendBuffer = 256
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans battle envelopes out to websocket subscribers.
// A subscriber that can't keep up is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends env to every subscriber.
func (h *Hub) Broadcast(env event.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("marshaling envelope", "type", env.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slog.Warn("dropping slow event subscriber", "remote", c.conn.RemoteAddr())
			h.removeLocked(c)
		}
	}
}

// Attach forwards every message published on bus as an envelope of the
// given battle. tick is sampled at publish time.
func (h *Hub) Attach(bus *event.Bus, battle uuid.UUID, tick func() uint64) {
	send := func(msg any) {
		env, err := event.Encode(battle, tick(), msg)
		if err != nil {
			slog.Error("encoding event", "battle", battle, "error", err)
			return
		}
		h.Broadcast(env)
	}
	bus.OnTakeDamage(func(m model.TakeDamageMessage) { send(m) })
	bus.OnUnitDeath(func(m model.UnitDeathMessage) { send(m) })
	bus.OnSquadLoss(func(m model.SquadLossThresholdMessage) { send(m) })
	bus.OnCombat(func(m model.CombatMessage) { send(m) })
}

// ServeWS upgrades the request and registers the connection as a subscriber.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	slog.Debug("event subscriber connected", "remote", conn.RemoteAddr())

	go h.writePump(c)
	go h.readPump(c)
}

// Close disconnects all subscribers and rejects new ones.
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

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// readPump discards client input; it only detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
