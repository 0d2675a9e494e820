package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/miru4128/gaayatri-project/internal/adapter/llm"
	"github.com/miru4128/gaayatri-project/internal/animalctx"
	"github.com/miru4128/gaayatri-project/internal/prompt"
	"github.com/miru4128/gaayatri-project/internal/repository"
	"github.com/miru4128/gaayatri-project/internal/safety"
	"github.com/miru4128/gaayatri-project/internal/semantic"
	"github.com/miru4128/gaayatri-project/internal/session"
	"github.com/miru4128/gaayatri-project/policy"
)

// SemanticClassifier scores how close a question is to cattle care.
type SemanticClassifier interface {
	Classify(ctx context.Context, query string) (semantic.Result, error)
}

// Locator resolves a client IP into a region label.
type Locator interface {
	Label(ctx context.Context, ip string) string
}

// Config holds the service settings.
type Config struct {
	FarmerRole      string
	SemanticTimeout time.Duration
}

type Service struct {
	store        repository.Store
	sessions     *session.Manager
	safety       *safety.Classifier
	semantic     SemanticClassifier
	policyEngine *policy.Engine
	assembler    *prompt.Assembler
	llmClient    llm.LLMClient
	locator      Locator
	config       Config

	semanticDown atomic.Bool
}

// New wires the intake pipeline. semanticClassifier and locator may be nil.
func New(store repository.Store, llmClient llm.LLMClient, policyEngine *policy.Engine, semanticClassifier SemanticClassifier, locator Locator, assembler *prompt.Assembler, cfg Config) *Service {
	if cfg.FarmerRole == "" {
		cfg.FarmerRole = "farmer"
	}
	if cfg.SemanticTimeout <= 0 {
		cfg.SemanticTimeout = 5 * time.Second
	}
	if assembler == nil {
		assembler = prompt.NewAssembler("")
	}
	return &Service{
		store:        store,
		sessions:     session.NewManager(store, animalctx.NewEnricher(store)),
		safety:       safety.NewClassifier(nil),
		semantic:     semanticClassifier,
		policyEngine: policyEngine,
		assembler:    assembler,
		llmClient:    llmClient,
		locator:      locator,
		config:       cfg,
	}
}
