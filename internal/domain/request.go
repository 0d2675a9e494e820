package domain

import "encoding/json"

// ChatRequest is a message submission from a farmer.
type ChatRequest struct {
	UserID    string          `json:"-"`
	UserRole  string          `json:"-"`
	ClientIP  string          `json:"-"`
	SessionID string          `json:"session_id,omitempty"`
	Message   string          `json:"message"`
	Context   json.RawMessage `json:"context,omitempty"`
}

// ChatResponse is the assistant's answer to a ChatRequest.
type ChatResponse struct {
	OK           bool     `json:"ok"`
	Reply        string   `json:"reply"`
	BotMessageID string   `json:"bot_message_id"`
	SessionID    string   `json:"session_id"`
	Decision     Decision `json:"decision"`
}

// FeedbackRequest rates a bot message.
type FeedbackRequest struct {
	MessageID string `json:"message_id"`
	Feedback  *int   `json:"feedback"`
}
