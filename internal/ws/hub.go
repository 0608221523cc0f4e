package ws

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Client represents a single WebSocket connection with principal context.
// Tenant and landlord ids live in separate tables, so connections are keyed
// by role + id.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	Hub    *Hub // set so Close() can unregister
	mu     sync.Mutex
	closed bool
}

func (c *Client) key() string {
	return fmt.Sprintf("%s:%d", c.Role, c.UserID)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// Hub maintains the set of active clients and pushes notifications to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// role:id -> clients (one principal can have multiple connections)
	byKey map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byKey:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	k := c.key()
	if h.byKey[k] == nil {
		h.byKey[k] = make(map[*Client]struct{})
	}
	h.byKey[k][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	k := c.key()
	if m := h.byKey[k]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byKey, k)
		}
	}
}

func (h *Hub) BroadcastToUser(role string, userID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byKey[fmt.Sprintf("%s:%d", role, userID)]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
