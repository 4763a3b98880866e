// Package chat owns the conversation transcript: the message model, the
// streaming session that reconciles incoming fragments into it, and the
// client for the assistant's text-event stream.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

// Message senders.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one transcript entry. An assistant message grows in place
// while its turn streams; like flags toggle at any time. Messages are never
// deleted individually; only the whole transcript is cleared.
//
// Liked and Disliked are independent toggles, not mutually exclusive.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Liked     bool      `json:"liked"`
	Disliked  bool      `json:"disliked"`
}
