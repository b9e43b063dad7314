package chat

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"iris/internal/models"
	"iris/internal/storage"

	"github.com/rs/zerolog"
)

// contextWindow is the number of recent messages (user and assistant
// combined) sent with each generation request.
const contextWindow = 10

// FallbackReply is appended in place of a real reply when generation fails.
// The turn is always terminal: either the reply or this text lands in the
// conversation, never nothing.
const FallbackReply = "I'm sorry, I encountered an error while processing your request. Please try again."

var (
	// ErrEmptyPrompt rejects an empty or whitespace-only prompt.
	ErrEmptyPrompt = errors.New("chat: empty prompt")
	// ErrBusy rejects a send while another turn is in flight. The send is
	// dropped, not queued.
	ErrBusy = errors.New("chat: turn already in flight")
)

// ContextMessage is one prior turn handed to the generation endpoint.
type ContextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces a reply to a prompt given prior turns, oldest first.
// Any failure is treated uniformly by the manager; error kinds are not
// interpreted.
type Generator interface {
	Generate(ctx context.Context, message string, prior []ContextMessage) (string, error)
}

// Result is the outcome of one completed turn.
type Result struct {
	UserMessage      models.Message
	AssistantMessage models.Message
	// Failed reports that AssistantMessage carries FallbackReply instead
	// of a generated reply.
	Failed bool
}

// Manager drives one prompt/reply turn at a time: it builds the context
// window from the current conversation, delegates to the generator, and
// appends both sides of the turn to the store.
type Manager struct {
	store   *storage.Store
	gen     Generator
	log     zerolog.Logger
	sending atomic.Bool
}

// NewManager creates a manager over the given store and generator.
func NewManager(store *storage.Store, gen Generator, log zerolog.Logger) *Manager {
	return &Manager{store: store, gen: gen, log: log}
}

// Sending reports whether a turn is currently in flight.
func (m *Manager) Sending() bool {
	return m.sending.Load()
}

// Send runs one turn. It rejects empty prompts (ErrEmptyPrompt) and
// overlapping sends (ErrBusy); both rejects persist nothing. Generation
// failure is not an error here: the fallback reply is appended and the
// result carries Failed. When the current conversation pointer is unset or
// dangling, the turn still runs and the result is returned for display, but
// nothing is persisted.
func (m *Manager) Send(ctx context.Context, prompt string) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Result{}, ErrEmptyPrompt
	}
	if !m.sending.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer m.sending.Store(false)

	current, hasCurrent := m.store.CurrentConversation()
	window := buildWindow(current.Messages)

	result := Result{UserMessage: models.NewMessage(models.RoleUser, prompt)}

	reply, err := m.gen.Generate(ctx, prompt, window)
	if err != nil {
		m.log.Error().Err(err).Msg("generation request failed")
		result.AssistantMessage = models.NewMessage(models.RoleAssistant, FallbackReply)
		result.Failed = true
	} else {
		result.AssistantMessage = models.NewMessage(models.RoleAssistant, reply)
	}

	if hasCurrent {
		m.store.AppendMessages(current.ID, result.UserMessage, result.AssistantMessage)
	}
	return result, nil
}

// buildWindow converts the most recent messages to the generation contract,
// oldest first.
func buildWindow(messages []models.Message) []ContextMessage {
	start := len(messages) - contextWindow
	if start < 0 {
		start = 0
	}
	recent := messages[start:]
	window := make([]ContextMessage, 0, len(recent))
	for _, msg := range recent {
		window = append(window, ContextMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return window
}
