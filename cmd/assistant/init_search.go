package main

import (
	"fmt"
	"log/slog"

	"research-assistant/internal/adapter/search"
	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
	"research-assistant/internal/infra/logger"
)

// initSearch builds the default search provider. It returns a nil provider
// when search is disabled.
func initSearch(cfg *config.Config, log *slog.Logger) (domain.SearchProvider, error) {
	log = logger.Component(log, "search")

	provider, err := search.NewDefault(cfg.Search, log)
	if err != nil {
		return nil, fmt.Errorf("search provider %s: %w", cfg.Search.Default, err)
	}
	if provider == nil {
		log.Info("search disabled")
		return nil, nil
	}

	log.Info("search provider ready", "provider", provider.Name(), "key", provider.Key())
	return provider, nil
}
