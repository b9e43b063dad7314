package models

import (
	"time"
	"unicode/utf8"
)

// DefaultTitle is the placeholder title a conversation carries until its
// first user message arrives.
const DefaultTitle = "New Chat"

// titleLimit is the maximum rune length of a derived title.
const titleLimit = 50

// Conversation represents a chat conversation with messages and metadata.
// Tags deliberately has no omitempty: nil ("never assigned") and an
// assigned-but-empty list serialize differently and survive a round trip.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"`
	Pinned    bool      `json:"pinned,omitempty"`
	Tags      []string  `json:"tags"`
}

// NewConversation creates an empty conversation with the placeholder title.
func NewConversation() Conversation {
	return Conversation{
		ID:        NewID(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		Timestamp: time.Now(),
	}
}

// DeriveTitle returns the title a conversation should carry after a user
// message. It fires at most once: only while current is still the
// placeholder and the message is non-empty. The derived title is the first
// 50 runes of the message, with "..." appended only when truncated.
func DeriveTitle(current, userMessage string) string {
	if current != DefaultTitle || userMessage == "" {
		return current
	}
	runes := []rune(userMessage)
	if len(runes) <= titleLimit {
		return userMessage
	}
	return string(runes[:titleLimit]) + "..."
}

// Preview returns the last message content truncated to 50 runes, for
// sidebar display.
func (c Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return "New conversation"
	}
	preview := c.Messages[len(c.Messages)-1].Content
	if utf8.RuneCountInString(preview) > 50 {
		preview = string([]rune(preview)[:47]) + "..."
	}
	return preview
}
