package gateway

import (
	"encoding/json"
	"log"

	"github.com/docgate/docgate-go/internal/models"
)

// Hub fans job events out to every connected stream client. Clients are
// plain byte channels; the stream handler owns the HTTP side.
type Hub struct {
	clients    map[chan []byte]bool
	register   chan chan []byte
	unregister chan chan []byte
	broadcast  chan []byte
}

// NewHub creates a hub. Call Run in its own goroutine before use.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[chan []byte]bool),
		register:   make(chan chan []byte),
		unregister: make(chan chan []byte),
		broadcast:  make(chan []byte),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case ch := <-h.register:
			h.clients[ch] = true
		case ch := <-h.unregister:
			if h.clients[ch] {
				delete(h.clients, ch)
				close(ch)
			}
		case message := <-h.broadcast:
			for ch := range h.clients {
				select {
				case ch <- message:
				default:
					// Slow client; drop it rather than stall the hub.
					delete(h.clients, ch)
					close(ch)
				}
			}
		}
	}
}

// Subscribe registers a new client channel.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	h.register <- ch
	return ch
}

// Unsubscribe removes a client channel; safe to call after the hub already
// dropped it.
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.unregister <- ch
}

// Publish broadcasts one job event to all connected clients.
func (h *Hub) Publish(ev models.JobEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal job event: %v", err)
		return
	}
	h.broadcast <- payload
}
