// Package ws provides the realtime layer: a websocket hub with room-based
// agent event broadcasting, keyed by conversation id.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Envelope is the wire format for server-to-client events.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// AgentEvent is the payload broadcast under the "agent_event" event.
type AgentEvent struct {
	AgentName string `json:"agent_name"`
	EventType string `json:"event_type"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// inbound is what clients send: currently only room joins.
type inbound struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
}

// Stats summarizes hub activity.
type Stats struct {
	ActiveConnections int `json:"active_connections"`
	Rooms             int `json:"rooms"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub tracks connections and their conversation rooms.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	rooms   map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		rooms:   make(map[string]map[*client]struct{}),
	}
}

// Serve upgrades the request and pumps messages until the client leaves.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, 16)}
	h.register(c)
	h.logger.Info("client connected", "id", c.id)
	go c.writePump()

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "join_conversation" && msg.ConversationID != "" {
			h.join(c, msg.ConversationID)
			h.logger.Info("client joined conversation", "id", c.id, "conversation", msg.ConversationID)
		}
	}

	h.unregister(c)
	h.logger.Info("client disconnected", "id", c.id)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
}

func (h *Hub) join(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// emit sends an envelope to a room, or to everyone when room is empty.
// Slow clients are skipped rather than blocking the broadcast.
func (h *Hub) emit(room string, event Envelope) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("encode event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var targets map[*client]struct{}
	if room == "" {
		targets = h.clients
	} else {
		targets = h.rooms[room]
	}
	for c := range targets {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// EmitAgentStatus broadcasts a status change to a conversation's subscribers.
func (h *Hub) EmitAgentStatus(agentName, status, conversationID string, data any) {
	h.emit(conversationID, Envelope{Event: "agent_event", Data: AgentEvent{
		AgentName: agentName,
		EventType: "status_change",
		Status:    status,
		Data:      data,
	}})
}

// EmitAgentMessage broadcasts an agent message to a conversation.
func (h *Hub) EmitAgentMessage(agentName, message, conversationID string) {
	h.emit(conversationID, Envelope{Event: "agent_event", Data: AgentEvent{
		AgentName: agentName,
		EventType: "message",
		Message:   message,
	}})
}

// EmitError broadcasts an error, to one conversation or to all clients when
// conversationID is empty.
func (h *Hub) EmitError(errMsg, agentName, conversationID string) {
	if agentName == "" {
		agentName = "system"
	}
	h.emit(conversationID, Envelope{Event: "agent_event", Data: AgentEvent{
		AgentName: agentName,
		EventType: "error",
		Error:     errMsg,
	}})
}

// Broadcast sends an arbitrary event to a conversation's subscribers.
func (h *Hub) Broadcast(conversationID, eventType string, data any) {
	h.emit(conversationID, Envelope{Event: eventType, Data: data})
}

// Stats reports connection and room counts.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{ActiveConnections: len(h.clients), Rooms: len(h.rooms)}
}
