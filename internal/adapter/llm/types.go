package llm

import "strings"

// Role names used in chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatCompletionRequest is the OpenAI-compatible request body.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// ChatMessage represents a chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the completion response. Besides the
// OpenAI-compatible choices, some backends answer with a top-level reply or
// text field.
type ChatCompletionResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
	Usage   *Usage   `json:"usage,omitempty"`
	Reply   string   `json:"reply,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Choice represents a completion choice.
type Choice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Content returns the reply text: the first choice's message, else the
// top-level reply, else the top-level text.
func (r *ChatCompletionResponse) Content() string {
	if r == nil {
		return ""
	}
	if len(r.Choices) > 0 && r.Choices[0].Message != nil {
		if s := strings.TrimSpace(r.Choices[0].Message.Content); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(r.Reply); s != "" {
		return s
	}
	return strings.TrimSpace(r.Text)
}
