package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event between two users.
// ID and CreatedAt are server-assigned; client-proposed values are ignored.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversationId"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	Content        string    `json:"content"`
	Lang           string    `json:"lang,omitempty"` // ISO 639-3 code of the detected content language
	CreatedAt      time.Time `json:"createdAt"`
}
