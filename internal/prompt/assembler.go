// Package prompt assembles the chat completion request for a farmer's
// question.
package prompt

import (
	"strings"

	"github.com/miru4128/gaayatri-project/internal/adapter/llm"
	"github.com/miru4128/gaayatri-project/internal/domain"
	"github.com/miru4128/gaayatri-project/internal/geo"
)

const (
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 512
	DefaultHistoryLimit = 8
)

var persona = []string{
	"You are GAAYATRI, a veterinary assistant for Indian dairy farmers.",
	"Follow this priority order: (1) base guidance on trusted Indian sources (ICAR, DAHD, NDDB, state veterinary universities);",
	"(2) reuse the farmer's provided context or GAAYATRI knowledge base details;",
	"(3) if a question is outside bovine care, clearly refuse, suggest speaking with the right professional, and never invent facts.",
	"Keep replies focused on actionable steps (max 5-6 sentences, bullets when helpful), include quick checks or follow-up questions when uncertain,",
	"and remind farmers to contact a local veterinarian immediately for emergencies (bleeding, fractures, prolapse, poisoning, high fever, labor distress).",
	"Assume the farmer is in India and tailor examples to Indian breeds, fodder, climate, and regulations. Never mention IP addresses or how location was inferred.",
}

const genericRegion = "No specific region provided beyond India; pick advice suitable for Indian farming conditions."

// Assembler builds completion requests.
type Assembler struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	HistoryLimit int
}

// NewAssembler returns an Assembler with the default sampling settings for
// the resolved model.
func NewAssembler(model string) *Assembler {
	return &Assembler{
		Model:        llm.ResolveModel(model),
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// Input is everything the prompt depends on.
type Input struct {
	Context  domain.AnimalContext
	Location string
	// Recent holds the session's latest messages, newest first, as returned
	// by the store. At most HistoryLimit of them are used.
	Recent  []domain.Message
	Message string
}

// SystemPrompt renders the system instruction.
func SystemPrompt(c domain.AnimalContext, location string) string {
	parts := append([]string(nil), persona...)
	if summary := c.Summary(); summary != "" {
		parts = append(parts, "Current animal context: "+summary+".")
	}
	if geo.IsRegionHint(location) {
		parts = append(parts, "Farmer region hint: "+location+". Apply relevant Indian state considerations.")
	} else {
		parts = append(parts, genericRegion)
	}
	return strings.Join(parts, " ")
}

// History converts stored messages, newest first, into chronological chat
// turns. The newest entry is skipped when it is the user's current message
// already persisted.
func History(recent []domain.Message, limit int, current string) []llm.ChatMessage {
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	if len(recent) > 0 && recent[0].Role == domain.RoleUser && recent[0].Text == current {
		recent = recent[1:]
	}

	turns := make([]llm.ChatMessage, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		role := llm.RoleUser
		if recent[i].Role == domain.RoleBot {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.ChatMessage{Role: role, Content: recent[i].Text})
	}
	return turns
}

// UserPrompt prefixes the message with the context issue unless the farmer
// already mentions it.
func UserPrompt(c domain.AnimalContext, message string) string {
	if c.Issue != "" && !strings.Contains(strings.ToLower(message), strings.ToLower(c.Issue)) {
		return "Issue: " + c.Issue + ". Question: " + message
	}
	return message
}

// Build assembles the request: system prompt, windowed history and the
// current question.
func (a *Assembler) Build(in Input) *llm.ChatCompletionRequest {
	messages := []llm.ChatMessage{{Role: llm.RoleSystem, Content: SystemPrompt(in.Context, in.Location)}}
	messages = append(messages, History(in.Recent, a.HistoryLimit, in.Message)...)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: UserPrompt(in.Context, in.Message)})

	temperature := a.Temperature
	maxTokens := a.MaxTokens
	return &llm.ChatCompletionRequest{
		Model:       a.Model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
}
