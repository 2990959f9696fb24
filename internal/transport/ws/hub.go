package ws

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// TopicPosts carries every feed mutation event.
const TopicPosts = "posts"

// Hub manages all active WebSocket observers and fans events out to them.
// Delivery is fire-and-forget: no replay, no durability, and publishing with
// zero subscribers is a no-op.
type Hub struct {
	// clients maps connection id → client. Observers are anonymous; the
	// feed is publicly readable, so connections carry no user identity.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	done       chan struct{}
}

type broadcastMsg struct {
	topic string
	data  []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
//
// The loop is the sole owner of each client's done channel: clients are
// detached by closing done, never by closing send, so the client's own
// goroutines can keep using send safely until they observe done.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.id] = client
			log.Printf("ws hub: observer %s connected (%d total)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				h.drop(client)
				log.Printf("ws hub: observer %s disconnected (%d total)", client.id, len(h.clients))
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if !client.IsSubscribed(msg.topic) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.drop(client)
				}
			}

		case <-h.done:
			for _, client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client.id)
	close(client.done)
}

// Stop shuts down the event loop and disconnects every observer.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish sends an event to every observer currently subscribed to the topic.
// It never fails the caller; marshal errors are logged and dropped.
func (h *Hub) Publish(topic string, payload any) {
	evt, err := NewEvent(topic, payload)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{topic: topic, data: data}
}
