// Package semantic decides whether a free-text question is about cattle care
// by comparing its embedding against a fixed cluster of reference prompts.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultThreshold is the minimum cosine similarity for a query to pass.
const DefaultThreshold = 0.65

// ErrUnavailable is returned when the embedding backend cannot be loaded or
// queried. Callers should skip the filter rather than treat it as a miss.
var ErrUnavailable = errors.New("semantic classifier unavailable")

// DefaultPrompts is the reference prompt cluster describing the allowed
// topics. Order is fixed.
var DefaultPrompts = []string{
	"cattle health and disease",
	"cow nutrition and feed",
	"buffalo milk production",
	"livestock housing and infrastructure",
	"veterinary support for cattle",
	"breeding and artificial insemination for cows",
	"mastitis in dairy cows",
	"calf care and management",
	"fodder and silage for cattle",
	"weather effects on dairy cattle",
	"dairy farm management",
}

// Embedder turns text into fixed-dimension vectors.
// langchaingo's embeddings.Embedder satisfies it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Loader constructs the embedding backend. It is called lazily on first use
// and again after a failed attempt.
type Loader func(ctx context.Context) (Embedder, error)

// Result is the outcome of a classification.
type Result struct {
	Passed bool
	Score  float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithPrompts replaces the reference prompt cluster.
func WithPrompts(prompts []string) Option {
	return func(c *Classifier) {
		if len(prompts) > 0 {
			c.prompts = append([]string(nil), prompts...)
		}
	}
}

// Classifier lazily loads its backend and reference embeddings exactly once,
// even when the first calls arrive concurrently. Once loaded, both are
// read-only and shared without locking.
type Classifier struct {
	load      Loader
	prompts   []string
	threshold float64

	mu       sync.Mutex
	ready    atomic.Bool
	embedder Embedder
	refs     [][]float32
}

// New creates a classifier. Nothing is loaded until the first Classify call.
func New(load Loader, opts ...Option) *Classifier {
	c := &Classifier{
		load:      load,
		prompts:   DefaultPrompts,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the pass threshold in use.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify returns the best similarity of query against the reference
// prompts and whether it reaches the threshold. Empty input scores zero
// without touching the backend. Backend failures wrap ErrUnavailable.
func (c *Classifier) Classify(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, nil
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return Result{}, err
	}

	vec, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("%w: embed query: %v", ErrUnavailable, err)
	}

	var best float64
	for _, ref := range c.refs {
		score, err := CosineSimilarity(vec, ref)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if score > best {
			best = score
		}
	}
	return Result{Passed: best >= c.threshold, Score: best}, nil
}

func (c *Classifier) ensureLoaded(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return nil
	}
	if c.load == nil {
		return fmt.Errorf("%w: no embedding backend configured", ErrUnavailable)
	}

	start := time.Now()
	embedder, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load backend: %v", ErrUnavailable, err)
	}
	refs, err := embedder.EmbedDocuments(ctx, c.prompts)
	if err != nil {
		return fmt.Errorf("%w: embed reference prompts: %v", ErrUnavailable, err)
	}
	if len(refs) != len(c.prompts) {
		return fmt.Errorf("%w: got %d reference embeddings for %d prompts", ErrUnavailable, len(refs), len(c.prompts))
	}

	c.embedder = embedder
	c.refs = refs
	c.ready.Store(true)
	log.Info().
		Int("prompts", len(refs)).
		Dur("took", time.Since(start)).
		Msg("semantic classifier loaded")
	return nil
}
