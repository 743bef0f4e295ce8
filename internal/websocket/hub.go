package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is a dashboard notification pushed to connected admin clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	At   time.Time   `json:"at"`
}

// Event types published by the handlers.
const (
	EventPostPublished   = "post_published"
	EventPostDeleted     = "post_deleted"
	EventSubscriberAdded = "subscriber_added"
)

// Hub maintains the set of connected admin dashboard clients and fans
// published events out to all of them.
type Hub struct {
	clients map[*Client]bool

	// Outbound events to every connected client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("WebSocket client registered. Active connections: %d", len(h.clients))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				log.Printf("WebSocket client unregistered. Active connections: %d", len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					log.Printf("Broadcast send buffer full for a dashboard client, dropping event")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishEvent queues a dashboard event for every connected client. It never
// blocks the caller for more than a second; an idle hub just drops the event.
func (h *Hub) PublishEvent(eventType string, data interface{}) {
	payload, err := json.Marshal(&Event{Type: eventType, Data: data, At: time.Now()})
	if err != nil {
		log.Printf("Failed to encode dashboard event %q: %v", eventType, err)
		return
	}

	select {
	case h.Broadcast <- payload:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing dashboard event %q. Hub might be busy or blocked.", eventType)
	}
}
