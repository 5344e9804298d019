// Package realtime owns the live WebSocket side of the system: per-user
// sessions, the connection registry, and presence fan-out.
package realtime

import (
	"encoding/json"

	"pairchat/domain"
)

// Server-to-client event types.
const (
	EventMessage  = "message"
	EventPresence = "presence"
	EventError    = "error"
)

// Client-to-server event types.
const (
	EventSubmitMessage = "submit_message"
)

// ServerEvent is the envelope for every frame pushed to a client.
type ServerEvent struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message,omitempty"`
	Online  []string        `json:"online,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ClientEvent is the envelope for every frame received from a client.
type ClientEvent struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Content string `json:"content"`
}

func DecodeClientEvent(payload []byte) (ClientEvent, error) {
	var event ClientEvent
	err := json.Unmarshal(payload, &event)
	return event, err
}
