package storage

import (
	"encoding/json"
	"time"

	"iris/internal/models"

	"github.com/rs/zerolog"
)

// Storage keys. Each collection lives under its own key as a JSON blob,
// independent of the others.
const (
	historyKey = "iris-chat-history"
	promptsKey = "iris-pinned-prompts"
	currentKey = "iris-current-chat"
)

// Capacity bounds. Insertion is always at the head; insertion beyond
// capacity evicts from the tail.
const (
	MaxConversations = 50
	MaxPinnedPrompts = 20
)

// Store persists conversation history, pinned prompts, and the current
// conversation pointer. Reads degrade to empty collections on missing or
// corrupt data, and writes are logged and swallowed on failure; callers
// never see a storage error. There is one Store per running application,
// passed by reference to whoever needs it.
type Store struct {
	db  *Database
	log zerolog.Logger
}

// Open creates a store backed by the SQLite database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := NewDatabase(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

// Detached creates a store with no persistent backing: every read returns
// empty and every write is a no-op. It keeps the application usable in
// contexts where storage is unavailable.
func Detached(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// Close releases the underlying database, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---- conversation history ----

// History returns the full conversation list in stored order (head = most
// recent by convention; the store does not re-sort).
func (s *Store) History() []models.Conversation {
	var history []models.Conversation
	if !s.read(historyKey, &history) || history == nil {
		return []models.Conversation{}
	}
	return history
}

// SaveHistory overwrites the stored conversation list verbatim.
func (s *Store) SaveHistory(history []models.Conversation) {
	s.write(historyKey, history)
}

// AddConversation inserts conv at the head of the history, evicting from
// the tail past MaxConversations, and persists before returning.
func (s *Store) AddConversation(conv models.Conversation) {
	history := append([]models.Conversation{conv}, s.History()...)
	if len(history) > MaxConversations {
		history = history[:MaxConversations]
	}
	s.SaveHistory(history)
}

// ConversationUpdate names the scalar fields UpdateConversation may merge.
// The message list is deliberately absent: replacing it wholesale from a
// stale snapshot loses concurrent appends, so message growth goes through
// AppendMessages instead.
type ConversationUpdate struct {
	Title     *string
	Pinned    *bool
	Tags      *[]string
	Timestamp *time.Time
}

// UpdateConversation merges the set fields of update into the conversation
// with the given id. A missing id is a benign no-op.
func (s *Store) UpdateConversation(id string, update ConversationUpdate) {
	history := s.History()
	for i := range history {
		if history[i].ID != id {
			continue
		}
		if update.Title != nil {
			history[i].Title = *update.Title
		}
		if update.Pinned != nil {
			history[i].Pinned = *update.Pinned
		}
		if update.Tags != nil {
			history[i].Tags = *update.Tags
		}
		if update.Timestamp != nil {
			history[i].Timestamp = *update.Timestamp
		}
		s.SaveHistory(history)
		return
	}
}

// AppendMessages appends msgs to the stored conversation with the given id,
// bumps its timestamp, and derives the title from the turn's user message
// while the title is still the placeholder. The stored record is loaded
// fresh here rather than taken from the caller, so a stale working copy can
// never clobber messages appended in between. A missing id is a no-op.
func (s *Store) AppendMessages(id string, msgs ...models.Message) {
	history := s.History()
	for i := range history {
		if history[i].ID != id {
			continue
		}
		history[i].Messages = append(history[i].Messages, msgs...)
		history[i].Timestamp = time.Now()
		for _, msg := range msgs {
			if msg.Role == models.RoleUser {
				history[i].Title = models.DeriveTitle(history[i].Title, msg.Content)
				break
			}
		}
		s.SaveHistory(history)
		return
	}
}

// DeleteConversation removes the conversation with the given id, if any,
// and re-saves unconditionally.
func (s *Store) DeleteConversation(id string) {
	history := s.History()
	filtered := make([]models.Conversation, 0, len(history))
	for _, conv := range history {
		if conv.ID != id {
			filtered = append(filtered, conv)
		}
	}
	s.SaveHistory(filtered)
}

// ToggleConversationPin flips the pinned flag of the conversation with the
// given id. A missing id is a benign no-op.
func (s *Store) ToggleConversationPin(id string) {
	history := s.History()
	for i := range history {
		if history[i].ID == id {
			history[i].Pinned = !history[i].Pinned
			s.SaveHistory(history)
			return
		}
	}
}

// ---- current conversation pointer ----

// CurrentChatID returns the stored current conversation id, or "" when none
// is set. The pointer has its own lifecycle and may name a conversation
// that no longer exists.
func (s *Store) CurrentChatID() string {
	if s.db == nil {
		return ""
	}
	value, ok, err := s.db.Get(currentKey)
	if err != nil {
		s.log.Error().Err(err).Str("key", currentKey).Msg("loading current chat id")
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// SetCurrentChatID stores id as the current conversation pointer.
func (s *Store) SetCurrentChatID(id string) {
	if s.db == nil {
		return
	}
	if err := s.db.Set(currentKey, id); err != nil {
		s.log.Error().Err(err).Str("key", currentKey).Msg("saving current chat id")
	}
}

// CurrentConversation resolves the current pointer against the history. A
// dangling or unset pointer behaves as "no current conversation".
func (s *Store) CurrentConversation() (models.Conversation, bool) {
	id := s.CurrentChatID()
	if id == "" {
		return models.Conversation{}, false
	}
	for _, conv := range s.History() {
		if conv.ID == id {
			return conv, true
		}
	}
	return models.Conversation{}, false
}

// ---- pinned prompts ----

// PinnedPrompts returns the full pinned prompt list in stored order.
func (s *Store) PinnedPrompts() []models.PinnedPrompt {
	var prompts []models.PinnedPrompt
	if !s.read(promptsKey, &prompts) || prompts == nil {
		return []models.PinnedPrompt{}
	}
	return prompts
}

// SavePinnedPrompts overwrites the stored pinned prompt list verbatim.
func (s *Store) SavePinnedPrompts(prompts []models.PinnedPrompt) {
	s.write(promptsKey, prompts)
}

// AddPinnedPrompt creates a prompt from text and category and inserts it at
// the head, evicting from the tail past MaxPinnedPrompts.
func (s *Store) AddPinnedPrompt(text string, category *string) models.PinnedPrompt {
	prompt := models.NewPinnedPrompt(text, category)
	prompts := append([]models.PinnedPrompt{prompt}, s.PinnedPrompts()...)
	if len(prompts) > MaxPinnedPrompts {
		prompts = prompts[:MaxPinnedPrompts]
	}
	s.SavePinnedPrompts(prompts)
	return prompt
}

// RemovePinnedPrompt removes the prompt with the given id, if any.
func (s *Store) RemovePinnedPrompt(id string) {
	prompts := s.PinnedPrompts()
	filtered := make([]models.PinnedPrompt, 0, len(prompts))
	for _, prompt := range prompts {
		if prompt.ID != id {
			filtered = append(filtered, prompt)
		}
	}
	s.SavePinnedPrompts(filtered)
}

// ---- serialization ----

// read unmarshals the JSON blob at key into out and reports whether out
// holds a complete decode. Missing keys, read failures, and corrupt JSON
// are logged and reported false, never propagated.
func (s *Store) read(key string, out any) bool {
	if s.db == nil {
		return false
	}
	raw, ok, err := s.db.Get(key)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("loading record")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("corrupt record, treating as empty")
		return false
	}
	return true
}

// write marshals value and stores it at key. Failures are logged and
// swallowed; the caller's in-memory copy stays authoritative until the next
// reload, so a failed save means "may not survive restart", not an error.
func (s *Store) write(key string, value any) {
	if s.db == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("encoding record")
		return
	}
	if err := s.db.Set(key, string(data)); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("saving record")
	}
}
