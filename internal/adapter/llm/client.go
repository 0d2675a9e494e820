package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const maxLoggedBody = 500

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client posting to apiURL, the full completion URL.
func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiURL: strings.TrimSpace(apiURL),
		apiKey: strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateChatCompletion sends a chat completion request. Every failure is an
// *Error carrying one of the package's codes.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if c.apiKey == "" || c.apiURL == "" {
		log.Error().Msg("llm api key or url is not configured")
		return nil, &Error{Code: CodeConfigMissing}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Code: CodeRequestFailed, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Code: CodeRequestFailed, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("model", req.Model).Msg("llm request failed")
		return nil, &Error{Code: CodeRequestFailed, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("failed to read llm response")
		return nil, &Error{Code: CodeRequestFailed, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(respBody), maxLoggedBody)).
			Msg("llm api error")
		return nil, &Error{
			Code:   HTTPErrorCode(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("LLM API error [%d]", resp.StatusCode),
		}
	}

	if !json.Valid(respBody) {
		log.Error().Str("body", truncate(string(respBody), maxLoggedBody)).Msg("llm response is not JSON")
		return nil, &Error{Code: CodeRequestFailed, Status: resp.StatusCode, Err: errors.New("response is not JSON")}
	}

	// Valid JSON in any other shape carries no extractable reply.
	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		log.Warn().Err(err).Str("body", truncate(string(respBody), maxLoggedBody)).Msg("llm response has an unexpected shape")
		return nil, &Error{Code: CodeEmptyResponse, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response shape: %w", err)}
	}
	if result.Content() == "" {
		log.Warn().Str("model", req.Model).Msg("llm returned no content")
		return nil, &Error{Code: CodeEmptyResponse, Status: resp.StatusCode}
	}
	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
