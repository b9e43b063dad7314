package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Iris"
	default:
		return string(r)
	}
}

// Message represents a single chat message. Messages belong to exactly one
// conversation and are never referenced from anywhere else.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh id and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewID returns an identifier unique within a collection. Wall-clock ids
// collide under rapid successive inserts, so ids are random UUIDs instead.
func NewID() string {
	return uuid.NewString()
}
