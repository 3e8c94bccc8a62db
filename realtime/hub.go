// Package realtime pushes order and payment events to connected back-office clients.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
)

// Event types
const (
	EventOrderCreated   = "order.created"
	EventOrderStatus    = "order.status"
	EventPaymentUpdated = "payment.updated"
)

// Event is the envelope written to every client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher is what business code depends on to announce events.
type Publisher interface {
	Publish(eventType string, data interface{})
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        logger.Logger

	mu    sync.RWMutex
	count int
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves register, unregister and broadcast requests until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.setCount(0)
			return
		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			h.log.Debug("Realtime client connected", "user_id", client.userID, "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.setCount(len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.setCount(len(h.clients))
		}
	}
}

// Publish encodes the event and queues it for every client. It never blocks the caller.
func (h *Hub) Publish(eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.log.Warn("Failed to encode realtime event", "type", eventType, "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("Realtime broadcast queue full, dropping event", "type", eventType)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// Discard drops every event; used where no hub is running.
type Discard struct{}

func (Discard) Publish(string, interface{}) {}
