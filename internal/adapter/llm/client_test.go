package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest() *ChatCompletionRequest {
	temperature := 0.7
	maxTokens := 512
	return &ChatCompletionRequest{
		Model:       "llama-3.1-8b-instant",
		Messages:    []ChatMessage{{Role: RoleUser, Content: "my cow has fever"}},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
}

func TestClientCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.1-8b-instant", body["model"])
		assert.Equal(t, 0.7, body["temperature"])
		assert.Equal(t, 512.0, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"  Give ORS.  "}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/openai/v1/chat/completions", "secret", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Equal(t, "Give ORS.", resp.Content())
}

func TestClientFallbackFields(t *testing.T) {
	for name, body := range map[string]string{
		"reply": `{"reply":"from reply"}`,
		"text":  `{"text":"from text"}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer server.Close()

			resp, err := NewClient(server.URL, "k", time.Second).CreateChatCompletion(context.Background(), newRequest())
			require.NoError(t, err)
			assert.Equal(t, "from "+name, resp.Content())
		})
	}
}

func TestClientErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, "http_429"},
		{"server error", http.StatusInternalServerError, `oops`, "http_500"},
		{"empty choices", http.StatusOK, `{"choices":[]}`, CodeEmptyResponse},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`, CodeEmptyResponse},
		{"unknown shape", http.StatusOK, `{"answer":"hi"}`, CodeEmptyResponse},
		{"top-level array", http.StatusOK, `[]`, CodeEmptyResponse},
		{"choices not a list", http.StatusOK, `{"choices":"nope"}`, CodeEmptyResponse},
		{"numeric reply", http.StatusOK, `{"reply":5}`, CodeEmptyResponse},
		{"bare string", http.StatusOK, `"just a string"`, CodeEmptyResponse},
		{"null body", http.StatusOK, `null`, CodeEmptyResponse},
		{"not json", http.StatusOK, `<html>`, CodeRequestFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "k", time.Second).CreateChatCompletion(context.Background(), newRequest())
			require.Error(t, err)
			assert.Equal(t, tc.want, ErrorCode(err))
		})
	}
}

func TestClientConfigMissing(t *testing.T) {
	_, err := NewClient("https://example.invalid/chat", "", time.Second).CreateChatCompletion(context.Background(), newRequest())
	require.Error(t, err)
	assert.Equal(t, CodeConfigMissing, ErrorCode(err))
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, "k", time.Second).CreateChatCompletion(context.Background(), newRequest())
	require.Error(t, err)
	assert.Equal(t, CodeRequestFailed, ErrorCode(err))
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"reply":"late"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "k", 20*time.Millisecond).CreateChatCompletion(context.Background(), newRequest())
	require.Error(t, err)
	assert.Equal(t, CodeRequestFailed, ErrorCode(err))
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, DefaultModel, ResolveModel(""))
	assert.Equal(t, "llama-3.3-70b-versatile", ResolveModel("mixtral-8x7b-32768"))
	assert.Equal(t, "llama-3.1-8b-instant", ResolveModel("llama3-8b-8192"))
	assert.Equal(t, "gemma2-9b-it", ResolveModel("gemma-7b-it"))
	assert.Equal(t, "custom-model", ResolveModel(" custom-model "))
}

func TestErrorCodeForeignError(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, CodeRequestFailed, ErrorCode(fmt.Errorf("boom")))
	assert.Equal(t, "http_503", ErrorCode(fmt.Errorf("wrapped: %w", &Error{Code: HTTPErrorCode(503)})))
}

func TestFactoryMockMode(t *testing.T) {
	client := NewLLMClient("mock", "", "", time.Second)
	_, ok := client.(*MockClient)
	require.True(t, ok)

	resp, err := client.CreateChatCompletion(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Contains(t, resp.Content(), "my cow has fever")

	_, ok = NewLLMClient("", "u", "k", time.Second).(*Client)
	assert.True(t, ok)
}
