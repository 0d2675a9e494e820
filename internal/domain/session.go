package domain

import "time"

// Session represents one continuous conversation thread of a farmer.
type Session struct {
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
	Context   AnimalContext `json:"context"`
}

// Message represents a single turn in a session.
// Text, role and location are immutable once stored; feedback is not.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Location  string    `json:"location,omitempty"`
	Feedback  Feedback  `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}
