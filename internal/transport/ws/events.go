package ws

import (
	"encoding/json"
	"time"

	"github.com/dkovac/feedline/internal/domain"
	"github.com/google/uuid"
)

// Frame types - Client → Server
const (
	FrameTypeSubscribe   = "subscribe"
	FrameTypeUnsubscribe = "unsubscribe"
	FrameTypePing        = "ping"
)

// Frame types - Server → Client
const (
	FrameTypeEvent = "event"
	FrameTypePong  = "pong"
	FrameTypeError = "error"
)

// Post event actions carried on the "posts" topic.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type TopicPayload struct {
	Topic string `json:"topic"`
}

// --- Server → Client payloads ---

// PostEventPayload is the discriminated payload on the "posts" topic.
// create/update carry the full post, delete carries only the id.
type PostEventPayload struct {
	Action string       `json:"action"`
	Post   *PostPayload `json:"post,omitempty"`
	PostID *uuid.UUID   `json:"postId,omitempty"`
}

// PostPayload embeds the post plus the denormalized creator snapshot.
type PostPayload struct {
	domain.Post
	Creator domain.Creator `json:"creator"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(topic string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      FrameTypeEvent,
		Topic:     topic,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
