package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket observer connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   uuid.UUID

	// topics tracks which topics this observer listens to.
	topics map[string]struct{}
	mu     sync.RWMutex

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		id:   uuid.New(),
		// Every observer watches the feed by default.
		topics: map[string]struct{}{TopicPosts: {}},
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// IsSubscribed checks if this observer is subscribed to a topic.
func (c *Client) IsSubscribed(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.topics[topic]
	return ok
}

// Subscribe adds a topic subscription.
func (c *Client) Subscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[topic] = struct{}{}
}

// Unsubscribe removes a topic subscription.
func (c *Client) Unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.topics, topic)
}

// detach hands the client back to the hub. When the hub has already stopped
// nobody is draining unregister, so bail out on its done channel instead of
// blocking forever.
func (c *Client) detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump reads frames from the WebSocket and handles them.
func (c *Client) ReadPump() {
	defer func() {
		c.detach()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: observer %s disconnected", c.id)
			} else {
				log.Printf("ws: read error from %s: %v", c.id, err)
			}
			return
		}

		c.handleFrame(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.id, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleFrame routes an incoming client frame.
func (c *Client) handleFrame(event *Event) {
	switch event.Type {
	case FrameTypeSubscribe:
		var p TopicPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.Topic == "" {
			c.sendError("INVALID_PAYLOAD", "invalid subscribe payload")
			return
		}
		c.Subscribe(p.Topic)

	case FrameTypeUnsubscribe:
		var p TopicPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.Topic == "" {
			c.sendError("INVALID_PAYLOAD", "invalid unsubscribe payload")
			return
		}
		c.Unsubscribe(p.Topic)

	case FrameTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_FRAME", "unknown frame type: "+event.Type)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: FrameTypePong})
	c.trySend(data)
}

func (c *Client) sendError(code, message string) {
	payload, err := json.Marshal(ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(Event{Type: FrameTypeError, Payload: payload})
	if err != nil {
		return
	}
	c.trySend(data)
}

// trySend queues a frame unless the client is already detached or its buffer
// is full. The send channel is never closed, so this cannot panic even after
// the hub has dropped the client.
func (c *Client) trySend(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}
