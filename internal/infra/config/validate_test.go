package config

import (
	"errors"
	"strings"
	"testing"

	"research-assistant/internal/domain"
)

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

func TestValidateDefaultsPass(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("Defaults should pass validation: %v", err)
	}
}

func TestValidateMissingKeyIsNotAnError(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.Providers[0].APIKey = ""
	cfg.Search.Default = "movie"
	cfg.Search.OMDbAPIKey = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("credentials are checked at construction, got: %v", err)
	}
}

func TestValidateLLMDefaultProviderEmpty(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.DefaultProvider = ""
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "llm.default_provider must not be empty")
}

func TestValidateLLMDuplicateProvider(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.Providers = []ProviderConfig{
		{Name: "groq", Type: "groq"},
		{Name: "groq", Type: "groq"},
	}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "duplicate provider name")
}

func TestValidateLLMUnknownDefault(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.DefaultProvider = "anthropic"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `llm.default_provider "anthropic" does not match`)
}

func TestValidateLLMInvalidType(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.Providers[0].Type = "bedrock"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `type "bedrock" is invalid`)
}

func TestValidateSearch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad default", func(c *Config) { c.Search.Default = "images" }, `search.default "images" is invalid`},
		{"bad backend", func(c *Config) { c.Search.WebBackend = "bing" }, `search.web_backend "bing" is invalid`},
		{"searxng url", func(c *Config) { c.Search.WebBackend = "searxng"; c.Search.SearXNGURL = "" }, "search.searxng_url is required"},
		{"max results", func(c *Config) { c.Search.MaxResults = 0 }, "search.max_results must be between 1 and 10"},
		{"candidates", func(c *Config) { c.Search.MovieCandidates = 0 }, "search.movie_candidates must be > 0"},
		{"timeout", func(c *Config) { c.Search.Timeout = 0 }, "search.timeout must be > 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			assertContains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateTracerFileNeedsEndpoint(t *testing.T) {
	cfg := Defaults()
	cfg.Tracer.Enabled = true
	cfg.Tracer.Exporter = "file"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "tracer.endpoint is required")
}

func TestValidateUIStreamSpeed(t *testing.T) {
	cfg := Defaults()
	cfg.UI.StreamSpeed = "warp"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `ui.stream_speed "warp" is invalid`)

	cfg.UI.StreamSpeed = "Fast"
	if err := Validate(cfg); err != nil {
		t.Errorf("stream speed should be case-insensitive: %v", err)
	}
}

func TestValidationErrorAggregates(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.MaxTokens = 0
	cfg.Logger.Format = "xml"

	err := Validate(cfg)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(ve.Errors), ve.Errors)
	}
	assertContains(t, err.Error(), "config validation failed:")
	if !errors.Is(err, domain.ErrConfigLoad) {
		t.Error("validation errors should unwrap to ErrConfigLoad")
	}
}

func TestValidateOneOfListsChoices(t *testing.T) {
	cfg := Defaults()
	cfg.Tracer.Exporter = "jaeger"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `tracer.exporter "jaeger" is invalid (want: noop, stdout, file)`)
}

func TestValidateBadBaseURL(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.Providers[0].BaseURL = "not a url"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `llm.providers[0] (groq): base_url "not a url" is not a valid URL`)
}
