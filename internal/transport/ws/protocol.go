package ws

import "encoding/json"

// Frame types sent by the client.
const (
	TypeChat     = "chat"
	TypeFeedback = "feedback"
)

// Frame types sent by the server.
const (
	TypeReply       = "reply"
	TypeFeedbackAck = "feedback_ack"
	TypeError       = "error"
)

// Error codes carried by error frames.
const (
	ErrorCodeInvalidMessage  = "invalid_message"
	ErrorCodeEmptyMessage    = "empty_message"
	ErrorCodeForbidden       = "forbidden"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeInvalidFeedback = "invalid_feedback"
	ErrorCodeModelError      = "model_error"
	ErrorCodeInternalError   = "internal_error"
)

// BaseFrame contains the fields common to all frames.
type BaseFrame struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatFrame submits a message. An empty session_id continues the
// connection's current session.
type ChatFrame struct {
	BaseFrame
	Message string          `json:"message"`
	Context json.RawMessage `json:"context,omitempty"`
}

// FeedbackFrame rates a bot message.
type FeedbackFrame struct {
	BaseFrame
	MessageID string `json:"message_id"`
	Feedback  *int   `json:"feedback"`
}

// ReplyFrame carries the assistant's answer.
type ReplyFrame struct {
	BaseFrame
	Reply        string `json:"reply"`
	BotMessageID string `json:"bot_message_id"`
	Decision     string `json:"decision"`
}

// FeedbackAckFrame confirms stored feedback.
type FeedbackAckFrame struct {
	BaseFrame
	MessageID string `json:"message_id"`
}

// ErrorFrame reports a failed request.
type ErrorFrame struct {
	BaseFrame
	Code    string `json:"code"`
	Message string `json:"message"`
	// ModelCode is the upstream failure code for model_error frames.
	ModelCode string `json:"model_code,omitempty"`
}
