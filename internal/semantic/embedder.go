package semantic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// EmbedderConfig selects and configures the embedding backend.
type EmbedderConfig struct {
	// Provider is "ollama", "openai" or "none".
	Provider string
	Model    string
	URL      string
	APIKey   string
	Timeout  time.Duration
}

// NewEmbedder builds a langchaingo embedder for cfg. Provider "none" (or an
// empty provider) returns ErrUnavailable so the filter is skipped.
func NewEmbedder(cfg EmbedderConfig) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.URL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.URL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		client, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return newEmbedder(client)

	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.URL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.URL))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return newEmbedder(client)

	case "", "none":
		return nil, fmt.Errorf("%w: embedding provider disabled", ErrUnavailable)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", ErrUnavailable, cfg.Provider)
	}
}

// ConfigLoader adapts NewEmbedder to a Loader.
func ConfigLoader(cfg EmbedderConfig) Loader {
	return func(context.Context) (Embedder, error) {
		return NewEmbedder(cfg)
	}
}

func newEmbedder(client embeddings.EmbedderClient) (Embedder, error) {
	e, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return e, nil
}
