package models

import "time"

// PinnedPrompt is a saved, reusable prompt text independent of any
// conversation. Category is optional; nil means no category was assigned.
type PinnedPrompt struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Category  *string   `json:"category,omitempty"`
}

// NewPinnedPrompt creates a pinned prompt with a fresh id and the current
// time. The store does not validate text; callers pass non-empty prompts.
func NewPinnedPrompt(text string, category *string) PinnedPrompt {
	return PinnedPrompt{
		ID:        NewID(),
		Text:      text,
		Timestamp: time.Now(),
		Category:  category,
	}
}
