package generate

import (
	"context"
	"fmt"

	"iris/internal/chat"

	openai "github.com/sashabaranov/go-openai"
)

// SystemPrompt is Iris's persona, sent with every generation request.
const SystemPrompt = `You are Iris, a warm, professional, creativity-first assistant for content creators.

Your personality:
- Friendly, supportive, and encouraging
- Expert in content creation across all platforms (TikTok, YouTube, Instagram, LinkedIn, Twitter/X)
- Provide actionable insights, scripts, captions, and video analysis
- Offer clear ideas, practical steps, and short examples

Keep responses concise but comprehensive, and always focus on practical, actionable advice that content creators can implement immediately.`

// Client generates replies through a hosted chat-completion endpoint. It is
// the manager's only collaborator; the rest of the application does not care
// how replies are produced.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a generation client. An empty model selects the default.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

// Generate implements chat.Generator: one request, one full reply, no
// streaming.
func (c *Client) Generate(ctx context.Context, message string, prior []chat.ContextMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prior)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt,
	})
	for _, msg := range prior {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == "user" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: 1000,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ chat.Generator = (*Client)(nil)
