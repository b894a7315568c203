package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
	"research-assistant/internal/infra/tracer"
)

// Default endpoints for OpenAI-compatible provider types.
var defaultBaseURLs = map[string]string{
	"groq":   "https://api.groq.com/openai/v1",
	"openai": "https://api.openai.com/v1",
}

// credentialEnv names the environment variable that supplies each provider
// type's key, for error messages.
var credentialEnv = map[string]string{
	"groq":   "GROQ_API_KEY",
	"openai": "OPENAI_API_KEY",
}

// GroqProvider implements domain.LLMProvider for Groq's OpenAI-compatible
// chat completions API. It also serves any other OpenAI-compatible endpoint.
type GroqProvider struct {
	name    string
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGroqProvider creates a provider with configured timeouts. A missing API
// key is reported immediately as domain.ErrConfigMissing.
func NewGroqProvider(cfg config.ProviderConfig, logger *slog.Logger) (*GroqProvider, error) {
	typ := cfg.Type
	if typ == "" {
		typ = "groq"
	}
	if cfg.APIKey == "" {
		env := credentialEnv[typ]
		if env == "" {
			env = "api_key"
		}
		return nil, domain.NewSubSystemError("llm", "llm.NewGroqProvider", domain.ErrConfigMissing,
			fmt.Sprintf("%s is not set for provider %q", env, cfg.Name))
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURLs[typ]
	}

	return &GroqProvider{
		name:    cfg.Name,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  NewHTTPClient(cfg),
		logger:  logger,
	}, nil
}

// Chat implements domain.LLMProvider.
func (p *GroqProvider) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if req.Model == "" {
		req.Model = p.model
	}

	ctx, span := tracer.StartSpan(ctx, "llm.chat",
		trace.WithAttributes(
			tracer.StringAttr("llm.provider", p.name),
			tracer.StringAttr("llm.model", req.Model),
		),
	)
	defer span.End()

	var wire chatResponse
	if err := postJSON(ctx, p.client, p.baseURL+"/chat/completions", p.apiKey, toChatRequest(req), &wire); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	result, err := fromChatResponse(wire)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		tracer.IntAttr("llm.prompt_tokens", result.Usage.PromptTokens),
		tracer.IntAttr("llm.completion_tokens", result.Usage.CompletionTokens),
	)
	tracer.SetOK(span)
	p.logger.DebugContext(ctx, "llm chat completed",
		"provider", p.name,
		"model", result.Model,
		"tokens", result.Usage.TotalTokens,
	)

	return result, nil
}

// Name implements domain.LLMProvider.
func (p *GroqProvider) Name() string { return p.name }

var _ domain.LLMProvider = (*GroqProvider)(nil)

// --- OpenAI-compatible wire types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
	Created int64        `json:"created"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func toChatRequest(req domain.ChatRequest) chatRequest {
	msgs := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	out := chatRequest{
		Model:     req.Model,
		Messages:  msgs,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		out.Temperature = &req.Temperature
	}
	return out
}

func fromChatResponse(resp chatResponse) (*domain.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contained no choices", domain.ErrProviderError)
	}

	created := time.Now()
	if resp.Created > 0 {
		created = time.Unix(resp.Created, 0)
	}

	choice := resp.Choices[0]
	return &domain.ChatResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Message:      domain.Message{Role: domain.RoleAssistant, Content: choice.Message.Content},
		FinishReason: choice.FinishReason,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Created: created,
	}, nil
}
