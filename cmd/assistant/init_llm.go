package main

import (
	"fmt"
	"log/slog"

	"research-assistant/internal/adapter/llm"
	"research-assistant/internal/infra/config"
	"research-assistant/internal/infra/logger"
)

// initLLM builds the provider registry and returns a client bound to the
// default provider. A provider without credentials yields a config error.
func initLLM(cfg *config.Config, log *slog.Logger) (*llm.Client, error) {
	log = logger.Component(log, "llm")

	registry, err := llm.BuildRegistry(cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	client, err := registry.Client(cfg.LLM.DefaultProvider, cfg.LLM.MaxTokens, log)
	if err != nil {
		return nil, fmt.Errorf("default llm provider: %w", err)
	}
	log.Info("llm ready",
		"providers", registry.Names(),
		"default", cfg.LLM.DefaultProvider,
		"model", client.Model(),
	)
	return client, nil
}
