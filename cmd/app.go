// Package cmd holds the gaayatri subcommands.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/internal/adapter/llm"
	"github.com/miru4128/gaayatri-project/internal/config"
	"github.com/miru4128/gaayatri-project/internal/geo"
	"github.com/miru4128/gaayatri-project/internal/logging"
	"github.com/miru4128/gaayatri-project/internal/prompt"
	"github.com/miru4128/gaayatri-project/internal/repository"
	"github.com/miru4128/gaayatri-project/internal/semantic"
	"github.com/miru4128/gaayatri-project/internal/service"
	"github.com/miru4128/gaayatri-project/policy"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}

func openStore(cfg *config.Config) (*repository.SQLiteStore, error) {
	store, err := repository.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return store, nil
}

func semanticEnabled(cfg *config.Config) bool {
	switch strings.ToLower(strings.TrimSpace(cfg.Embedding.Provider)) {
	case "", "none":
		return false
	}
	return true
}

func newService(ctx context.Context, cfg *config.Config, store repository.Store) (*service.Service, error) {
	policyEngine, err := policy.NewDefaultEngine(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	llmClient := llm.NewLLMClient(cfg.LLM.Mode, cfg.LLM.APIURL, cfg.LLM.APIKey, cfg.LLM.Timeout)

	var classifier service.SemanticClassifier
	if semanticEnabled(cfg) {
		classifier = semantic.New(semantic.ConfigLoader(semantic.EmbedderConfig{
			Provider: cfg.Embedding.Provider,
			Model:    cfg.Embedding.Model,
			URL:      cfg.Embedding.URL,
			APIKey:   cfg.Embedding.APIKey,
			Timeout:  cfg.Embedding.Timeout,
		}), semantic.WithThreshold(cfg.Embedding.Threshold))
	}

	locator := geo.NewLocator(geo.Config{
		APIURL:        cfg.Geo.APIURL,
		APIKey:        cfg.Geo.APIKey,
		Timeout:       cfg.Geo.Timeout,
		RatePerSecond: cfg.Geo.RatePerSecond,
		Burst:         cfg.Geo.Burst,
	})

	assembler := prompt.NewAssembler(cfg.LLM.Model)
	if cfg.LLM.Temperature > 0 {
		assembler.Temperature = cfg.LLM.Temperature
	}
	if cfg.LLM.MaxTokens > 0 {
		assembler.MaxTokens = cfg.LLM.MaxTokens
	}
	if cfg.LLM.HistoryLimit > 0 {
		assembler.HistoryLimit = cfg.LLM.HistoryLimit
	}

	return service.New(store, llmClient, policyEngine, classifier, locator, assembler, service.Config{
		FarmerRole:      cfg.Auth.FarmerRole,
		SemanticTimeout: cfg.Embedding.Timeout,
	}), nil
}
