package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"research-assistant/internal/domain"
)

// SystemPrompt is the fixed instruction sent with every request.
const SystemPrompt = "You are a helpful research assistant with access to search tools. " +
	"You provide accurate information based on search results."

// ErrorPrefix marks a response that carries a generation failure.
const ErrorPrefix = "Error generating response: "

// contextPreamble separates the system prompt from search context.
const contextPreamble = "\n\nHere is additional context from searches:\n"

// DefaultMaxTokens bounds the length of each generated answer.
const DefaultMaxTokens = 1000

// ClientConfig configures a Client.
type ClientConfig struct {
	Model     string
	MaxTokens int
}

// Client issues one prompt+context request per call. It never fails: errors
// and panics from the provider are rendered as ErrorPrefix strings.
//
// The current model is shared across callers; SetModel affects the next call only.
type Client struct {
	provider  domain.LLMProvider
	maxTokens int
	logger    *slog.Logger

	mu    sync.RWMutex
	model string
}

// NewClient wraps provider. The configured model must belong to the
// supported set; an empty model selects DefaultModel.
func NewClient(provider domain.LLMProvider, cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if provider == nil {
		return nil, domain.NewSubSystemError("llm", "llm.NewClient", domain.ErrConfigMissing, "no provider")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	if err := validateModel("llm.NewClient", model); err != nil {
		return nil, err
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		provider:  provider,
		maxTokens: maxTokens,
		logger:    logger,
		model:     model,
	}, nil
}

// GenerateResponse implements domain.ResponseGenerator.
func (c *Client) GenerateResponse(ctx context.Context, prompt, searchContext string) (answer string) {
	model := c.Model()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "llm call panicked", "model", model, "panic", r)
			answer = ErrorPrefix + fmt.Sprint(r)
		}
	}()

	system := SystemPrompt
	if searchContext != "" {
		system += contextPreamble + searchContext
	}

	resp, err := c.provider.Chat(ctx, domain.ChatRequest{
		Model: model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: system},
			{Role: domain.RoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		attrs := []any{
			"provider", c.provider.Name(),
			"model", model,
			"code", domain.ErrorCodeOf(err),
			"error", err,
		}
		if hp, ok := c.provider.(interface{ Health() BreakerHealth }); ok {
			h := hp.Health()
			attrs = append(attrs, "breaker", h.State, "consecutive_failures", h.ConsecutiveFailures)
		}
		c.logger.WarnContext(ctx, "llm call failed", attrs...)
		return ErrorPrefix + err.Error()
	}

	c.logger.InfoContext(ctx, "llm call completed",
		"provider", c.provider.Name(),
		"model", model,
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
	)
	return resp.Message.Content
}

// Model implements domain.ModelSelector.
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Models implements domain.ModelSelector.
func (c *Client) Models() []string {
	return SupportedModels()
}

// SetModel implements domain.ModelSelector.
func (c *Client) SetModel(id string) error {
	if err := validateModel("Client.SetModel", id); err != nil {
		return err
	}
	c.mu.Lock()
	prev := c.model
	c.model = id
	c.mu.Unlock()

	if prev != id {
		c.logger.Info("model changed", "from", prev, "to", id)
	}
	return nil
}

var (
	_ domain.ResponseGenerator = (*Client)(nil)
	_ domain.ModelSelector     = (*Client)(nil)
)
