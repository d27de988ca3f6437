// Package notify pushes list-revalidation events to connected browsers so
// ticket lists re-read after a write, whichever entry point (form or
// assistant) produced it.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Client is one connected websocket, pinned to an organization.
type Client struct {
	ID    string
	OrgID string
	Conn  *websocket.Conn
	Send  chan []byte
}

// Hub tracks clients per organization and fans events out to them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	orgClients map[string][]*Client

	Register   chan *Client
	Unregister chan *Client

	log zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		orgClients: make(map[string][]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log,
	}
}

func NewClient(orgID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:    uuid.NewString(),
		OrgID: orgID,
		Conn:  conn,
		Send:  make(chan []byte, 8),
	}
}

// Run owns the client registry; call once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.Register:
			h.mu.Lock()
			h.clients[c] = true
			h.orgClients[c.OrgID] = append(h.orgClients[c.OrgID], c)
			h.mu.Unlock()
		case c := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
				list := h.orgClients[c.OrgID]
				for i, other := range list {
					if other == c {
						h.orgClients[c.OrgID] = append(list[:i], list[i+1:]...)
						break
					}
				}
				if len(h.orgClients[c.OrgID]) == 0 {
					delete(h.orgClients, c.OrgID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every client of the organization. Slow clients
// are dropped rather than blocking the writer.
func (h *Hub) Broadcast(orgID string, event string) {
	data, err := json.Marshal(map[string]string{"event": event})
	if err != nil {
		h.log.Error().Err(err).Msg("encode event")
		return
	}

	h.mu.RLock()
	var stale []*Client
	for _, c := range h.orgClients[orgID] {
		select {
		case c.Send <- data:
		default:
			h.log.Warn().Str("client", c.ID).Msg("client buffer full, dropping")
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		go func(c *Client) { h.Unregister <- c }(c)
	}
}

// WritePump pumps hub messages to the websocket connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump drains (and discards) client frames until the connection closes,
// then unregisters.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
