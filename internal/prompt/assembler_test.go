package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miru4128/gaayatri-project/internal/adapter/llm"
	"github.com/miru4128/gaayatri-project/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// newestFirst builds n alternating messages, newest first.
func newestFirst(n int) []domain.Message {
	msgs := make([]domain.Message, n)
	for i := 0; i < n; i++ {
		idx := n - 1 - i
		role := domain.RoleUser
		if idx%2 == 1 {
			role = domain.RoleBot
		}
		msgs[i] = domain.Message{Role: role, Text: fmt.Sprintf("m%d", idx)}
	}
	return msgs
}

func TestSystemPromptContextAndRegion(t *testing.T) {
	c := domain.AnimalContext{Name: "Gauri", Breed: "Gir", MilkYield: ptr(8.5)}
	p := SystemPrompt(c, "Pune, Maharashtra, India")
	assert.True(t, strings.HasPrefix(p, "You are GAAYATRI, a veterinary assistant for Indian dairy farmers."))
	assert.Contains(t, p, "Current animal context: Gauri, Gir breed, 8.5 L/day.")
	assert.Contains(t, p, "Farmer region hint: Pune, Maharashtra, India.")
	assert.NotContains(t, p, genericRegion)

	p = SystemPrompt(domain.AnimalContext{}, "India")
	assert.NotContains(t, p, "Current animal context")
	assert.NotContains(t, p, "Farmer region hint")
	assert.True(t, strings.HasSuffix(p, genericRegion))
}

func TestHistoryWindowAndOrder(t *testing.T) {
	turns := History(newestFirst(12), 8, "new question")
	require.Len(t, turns, 8)
	assert.Equal(t, "m4", turns[0].Content)
	assert.Equal(t, "m11", turns[7].Content)
	assert.Equal(t, llm.RoleUser, turns[0].Role)
	assert.Equal(t, llm.RoleAssistant, turns[7].Role)
}

func TestHistoryDropsDuplicateCurrentMessage(t *testing.T) {
	recent := []domain.Message{
		{Role: domain.RoleUser, Text: "my cow is limping"},
		{Role: domain.RoleBot, Text: "Check the hoof."},
		{Role: domain.RoleUser, Text: "hello"},
	}
	turns := History(recent, 8, "my cow is limping")
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "Check the hoof.", turns[1].Content)

	turns = History(recent, 8, "something else")
	assert.Len(t, turns, 3)
}

func TestUserPromptIssuePrefix(t *testing.T) {
	c := domain.AnimalContext{Issue: "Mastitis"}
	assert.Equal(t, "Issue: Mastitis. Question: what should I feed?", UserPrompt(c, "what should I feed?"))
	assert.Equal(t, "is this MASTITIS spreading?", UserPrompt(c, "is this MASTITIS spreading?"))
	assert.Equal(t, "plain", UserPrompt(domain.AnimalContext{}, "plain"))
}

func TestBuild(t *testing.T) {
	a := NewAssembler("llama3-70b-8192")
	req := a.Build(Input{
		Context:  domain.AnimalContext{Issue: "Fever", Breed: "Jersey"},
		Location: "India",
		Recent: []domain.Message{
			{Role: domain.RoleUser, Text: "she is not eating"},
			{Role: domain.RoleBot, Text: "Offer fresh water."},
		},
		Message: "she is not eating",
	})

	assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
	require.NotNil(t, req.Temperature)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, 0.7, *req.Temperature)
	assert.Equal(t, 512, *req.MaxTokens)

	require.Len(t, req.Messages, 3)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, llm.ChatMessage{Role: llm.RoleAssistant, Content: "Offer fresh water."}, req.Messages[1])
	assert.Equal(t, llm.ChatMessage{Role: llm.RoleUser, Content: "Issue: Fever. Question: she is not eating"}, req.Messages[2])
}
