// Package llm provides an abstraction for the chat completion backend.
package llm

import "context"

// LLMClient defines the interface for chat completion calls.
type LLMClient interface {
	// CreateChatCompletion sends a non-streaming chat completion request.
	// A nil error guarantees a non-empty Content().
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)
