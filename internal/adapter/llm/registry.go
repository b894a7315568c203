package llm

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

// Registry holds the configured chat backends by name together with the
// config each was built from.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

type registryEntry struct {
	provider domain.LLMProvider
	cfg      config.ProviderConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// BuildRegistry creates a provider for every entry in cfg.Providers, each
// behind its own circuit breaker when enabled. The first provider that cannot
// be built aborts the build; a missing key surfaces as domain.ErrConfigMissing.
func BuildRegistry(cfg config.LLMConfig, logger *slog.Logger) (*Registry, error) {
	r := NewRegistry()
	for _, pc := range cfg.Providers {
		groq, err := NewGroqProvider(pc, logger)
		if err != nil {
			return nil, fmt.Errorf("llm provider %s: %w", pc.Name, err)
		}

		var provider domain.LLMProvider = groq
		if cfg.CircuitBreaker.Enabled {
			provider = NewCircuitBreakerProvider(provider, cfg.CircuitBreaker, logger)
		}
		if err := r.Register(provider, pc); err != nil {
			return nil, err
		}
	}

	if cb := cfg.CircuitBreaker; cb.Enabled {
		logger.Info("llm circuit breaker enabled",
			"max_failures", cb.MaxFailures,
			"timeout", cb.Timeout,
			"interval", cb.Interval,
		)
	}
	return r, nil
}

// Register adds provider under its name. Names must be unique.
func (r *Registry) Register(provider domain.LLMProvider, pc config.ProviderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.entries[name]; exists {
		return domain.NewSubSystemError("llm", "Registry.Register", domain.ErrInvalidInput,
			fmt.Sprintf("provider %q already registered", name))
	}
	r.entries[name] = registryEntry{provider: provider, cfg: pc}
	return nil
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (domain.LLMProvider, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.provider, nil
}

// Client returns a Client bound to the named provider, starting on the
// model that provider is configured with.
func (r *Registry) Client(name string, maxTokens int, logger *slog.Logger) (*Client, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return NewClient(e.provider, ClientConfig{Model: e.cfg.Model, MaxTokens: maxTokens}, logger)
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) lookup(name string) (registryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return registryEntry{}, domain.NewSubSystemError("llm", "Registry.Get", domain.ErrProviderNotFound, name)
	}
	return e, nil
}
