// Package search implements the web, movie and trailer search providers.
// Every provider reports failures inside the returned ToolResult rather
// than as an error.
package search

import (
	"fmt"
	"log/slog"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

// KeyForName maps a configuration name ("web", "movie", "trailer", "none")
// to a provider key. ok is false for "none" and for unknown names.
func KeyForName(name string) (key domain.ProviderKey, ok bool) {
	switch name {
	case "web", "search":
		return domain.ProviderWeb, true
	case "movie":
		return domain.ProviderMovie, true
	case "trailer":
		return domain.ProviderTrailer, true
	default:
		return "", false
	}
}

// New builds the provider for key. Providers that need a credential return
// domain.ErrConfigMissing when it is absent.
func New(key domain.ProviderKey, cfg config.SearchConfig, logger *slog.Logger) (domain.SearchProvider, error) {
	switch key {
	case domain.ProviderWeb:
		if cfg.WebBackend == "searxng" {
			return NewSearXNG(cfg, logger), nil
		}
		return NewDuckDuckGo(cfg, logger), nil
	case domain.ProviderMovie:
		p, err := NewOMDb(cfg, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.ProviderTrailer:
		p, err := NewYouTube(cfg, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, domain.NewSubSystemError("search", "search.New", domain.ErrInvalidInput,
			fmt.Sprintf("unknown provider key %q", key))
	}
}

// NewDefault builds the provider named by cfg.Default. It returns a nil
// provider for "none", which means turns skip searching.
func NewDefault(cfg config.SearchConfig, logger *slog.Logger) (domain.SearchProvider, error) {
	if cfg.Default == "none" || cfg.Default == "" {
		return nil, nil
	}
	key, ok := KeyForName(cfg.Default)
	if !ok {
		return nil, domain.NewSubSystemError("search", "search.NewDefault", domain.ErrInvalidInput,
			fmt.Sprintf("unknown search provider %q", cfg.Default))
	}
	return New(key, cfg, logger)
}
