package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"KolDesk/entity"
)

// Event represents a transcript event pushed to chat clients.
type Event struct {
	Type           string `json:"type"` // "message_appended", "message_updated", "message_deleted"
	ConversationId string `json:"conversation_id"`
	Data           any    `json:"data,omitempty"`
}

// Hub maintains the set of active WebSocket clients and fans transcript
// events out to the clients watching each conversation.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if client.conversationId != event.ConversationId {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastAppended notifies watchers that a message was added.
func (h *Hub) BroadcastAppended(msg entity.ChatMessage) {
	h.broadcast <- &Event{
		Type:           "message_appended",
		ConversationId: msg.ConversationId,
		Data:           msg,
	}
}

// BroadcastUpdated notifies watchers that a message's content changed.
func (h *Hub) BroadcastUpdated(conversationId, messageId string, content any) {
	h.broadcast <- &Event{
		Type:           "message_updated",
		ConversationId: conversationId,
		Data: map[string]any{
			"id":      messageId,
			"content": content,
		},
	}
}

// BroadcastDeleted notifies watchers that a message was removed.
func (h *Hub) BroadcastDeleted(conversationId, messageId string) {
	h.broadcast <- &Event{
		Type:           "message_deleted",
		ConversationId: conversationId,
		Data: map[string]string{
			"id": messageId,
		},
	}
}
