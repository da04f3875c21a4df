package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// ClientMessage is the JSON structure received from players. A "touch"
// carries screen coordinates; a "clap" stands in for a loud microphone frame.
type ClientMessage struct {
	Type string `json:"t"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
}

// ServerMessage is the JSON structure sent to players: one drawing command
// or a membership notice.
type ServerMessage struct {
	Type     string `json:"t"`
	PlayerID string `json:"id,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w,omitempty"`
	H        int    `json:"h,omitempty"`
	Asset    string `json:"a,omitempty"`
	Glyph    string `json:"g,omitempty"`
	Value    int    `json:"v"`
	Color    string `json:"c,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// ReadPump decodes client messages until the connection fails or ctx ends.
func (c *Client) ReadPump(ctx context.Context, handle func(ClientMessage)) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, c.Conn, &msg); err != nil {
			return err
		}
		handle(msg)
	}
}

// Hub manages the player connections of one cabinet.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.PlayerID] = c
}

// Unregister removes a client and closes its Send channel, then broadcasts a leave message.
func (h *Hub) Unregister(playerID string) {
	h.mu.Lock()
	c, ok := h.clients[playerID]
	if ok {
		close(c.Send)
		delete(h.clients, playerID)
	}
	h.mu.Unlock()

	if ok {
		h.BroadcastExcept(playerID, ServerMessage{
			Type:     "leave",
			PlayerID: playerID,
		})
	}
}

// CloseAll drops every client and closes its Send channel, which stops its
// WritePump. The connection itself belongs to whoever registered the client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.BroadcastExcept("", msg)
}

// BroadcastExcept sends a message to all clients except the sender. Non-blocking: drops if channel full.
func (h *Hub) BroadcastExcept(senderID string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.clients {
		if senderID != "" && id == senderID {
			continue
		}
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}
