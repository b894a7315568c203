package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{name: "groq"}, config.ProviderConfig{Name: "groq"}))
	require.NoError(t, r.Register(&mockProvider{name: "local"}, config.ProviderConfig{Name: "local"}))

	err := r.Register(&mockProvider{name: "groq"}, config.ProviderConfig{Name: "groq"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "duplicate names are rejected")

	p, err := r.Get("groq")
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)

	assert.Equal(t, []string{"groq", "local"}, r.Names())
}

func TestRegistryClientUsesProviderModel(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{name: "groq"}, config.ProviderConfig{Name: "groq", Model: "gemma-7b-it"}))

	c, err := r.Client("groq", 0, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "gemma-7b-it", c.Model())

	_, err = r.Client("missing", 0, newTestLogger())
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestBuildRegistry(t *testing.T) {
	cfg := config.Defaults().LLM
	cfg.Providers[0].APIKey = "gsk_test"

	r, err := BuildRegistry(cfg, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"groq"}, r.Names())

	p, err := r.Get("groq")
	require.NoError(t, err)
	_, wrapped := p.(*CircuitBreakerProvider)
	assert.True(t, wrapped, "breaker is enabled by default")

	cfg.CircuitBreaker.Enabled = false
	r, err = BuildRegistry(cfg, newTestLogger())
	require.NoError(t, err)
	p, _ = r.Get("groq")
	_, isGroq := p.(*GroqProvider)
	assert.True(t, isGroq)
}

func TestBuildRegistryMissingKey(t *testing.T) {
	_, err := BuildRegistry(config.Defaults().LLM, newTestLogger())
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}
