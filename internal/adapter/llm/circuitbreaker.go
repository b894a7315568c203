package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

// breakerDefaults fill zero-valued circuit breaker settings.
var breakerDefaults = config.CircuitBreakerConfig{
	MaxFailures: 5,
	Timeout:     30 * time.Second,
	Interval:    60 * time.Second,
}

// BreakerHealth is a point-in-time view of a breaker, attached to failure logs.
type BreakerHealth struct {
	State               string
	ConsecutiveFailures uint32
	TotalFailures       uint32
	TotalSuccesses      uint32
}

// CircuitBreakerProvider stops calling a provider after MaxFailures
// consecutive failures and answers with domain.ErrCircuitOpen until the open
// timeout elapses. One probe request is let through while half-open.
type CircuitBreakerProvider struct {
	inner    domain.LLMProvider
	breaker  *gobreaker.CircuitBreaker[*domain.ChatResponse]
	cooldown time.Duration
}

// NewCircuitBreakerProvider wraps inner. Zero-valued settings use breakerDefaults.
func NewCircuitBreakerProvider(inner domain.LLMProvider, cfg config.CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerProvider {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = breakerDefaults.MaxFailures
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = breakerDefaults.Timeout
	}
	if cfg.Interval == 0 {
		cfg.Interval = breakerDefaults.Interval
	}

	name := inner.Name()
	settings := gobreaker.Settings{
		Name:        "llm:" + name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn("llm circuit breaker state change",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: providerHealthy,
	}

	return &CircuitBreakerProvider{
		inner:    inner,
		breaker:  gobreaker.NewCircuitBreaker[*domain.ChatResponse](settings),
		cooldown: cfg.Timeout,
	}
}

// providerHealthy reports whether err leaves the provider's health untouched.
// Requests the caller got wrong or abandoned do not count against the provider.
func providerHealthy(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrUnknownModel),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrContextOverflow),
		errors.Is(err, context.Canceled):
		return true
	default:
		return false
	}
}

// Chat implements domain.LLMProvider.
func (p *CircuitBreakerProvider) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	resp, err := p.breaker.Execute(func() (*domain.ChatResponse, error) {
		return p.inner.Chat(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, domain.NewSubSystemError("llm", "CircuitBreakerProvider.Chat", domain.ErrCircuitOpen,
			fmt.Sprintf("provider %q paused for up to %s after repeated failures", p.inner.Name(), p.cooldown))
	}
	return resp, err
}

// Name implements domain.LLMProvider.
func (p *CircuitBreakerProvider) Name() string { return p.inner.Name() }

// Health reports the breaker state and counters.
func (p *CircuitBreakerProvider) Health() BreakerHealth {
	counts := p.breaker.Counts()
	return BreakerHealth{
		State:               p.breaker.State().String(),
		ConsecutiveFailures: counts.ConsecutiveFailures,
		TotalFailures:       counts.TotalFailures,
		TotalSuccesses:      counts.TotalSuccesses,
	}
}

var _ domain.LLMProvider = (*CircuitBreakerProvider)(nil)
