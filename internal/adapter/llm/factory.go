package llm

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ModeMock selects the mock client.
const ModeMock = "MOCK"

// NewLLMClient creates the completion client for mode. MOCK returns a
// MockClient; anything else the HTTP client.
func NewLLMClient(mode, apiURL, apiKey string, timeout time.Duration) LLMClient {
	if strings.EqualFold(strings.TrimSpace(mode), ModeMock) {
		log.Info().Msg("llm mode MOCK, using mock LLM client")
		return NewMockClient()
	}
	return NewClient(apiURL, apiKey, timeout)
}
