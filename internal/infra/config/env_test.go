package config

import (
	"testing"
	"time"
)

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("OMDB_API_KEY", "omdb-env")
	t.Setenv("YOUTUBE_API_KEY", "yt-env")
	t.Setenv("RESEARCH_LLM_MODEL", "gemma-7b-it")
	t.Setenv("RESEARCH_SEARCH_DEFAULT", "trailer")
	t.Setenv("RESEARCH_SEARCH_MIN_INTERVAL", "250ms")
	t.Setenv("RESEARCH_TRACER_ENABLED", "true")
	t.Setenv("RESEARCH_UI_STREAM_SPEED", "instant")

	cfg := Defaults()
	cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{Name: "local", Type: "openai", Model: "qwen"})
	ApplyEnvOverrides(cfg)

	if cfg.UI.StreamSpeed != "instant" {
		t.Errorf("UI.StreamSpeed = %q, want instant", cfg.UI.StreamSpeed)
	}

	p, _ := cfg.LLM.Provider("groq")
	if p.APIKey != "gsk-env" {
		t.Errorf("APIKey = %q, want gsk-env", p.APIKey)
	}
	if p.Model != "gemma-7b-it" {
		t.Errorf("Model = %q, want gemma-7b-it", p.Model)
	}
	if cfg.Search.OMDbAPIKey != "omdb-env" || cfg.Search.YouTubeAPIKey != "yt-env" {
		t.Errorf("search keys = %q/%q", cfg.Search.OMDbAPIKey, cfg.Search.YouTubeAPIKey)
	}
	if cfg.Search.Default != "trailer" {
		t.Errorf("Search.Default = %q", cfg.Search.Default)
	}
	if cfg.Search.MinInterval != 250*time.Millisecond {
		t.Errorf("MinInterval = %v", cfg.Search.MinInterval)
	}
	if !cfg.Tracer.Enabled {
		t.Error("tracer should be enabled")
	}
	local, _ := cfg.LLM.Provider("local")
	if local.APIKey != "" || local.Model != "qwen" {
		t.Errorf("non-default openai provider changed: %+v", local)
	}
}

func TestApplyEnvOverrides_TargetsDefaultProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-local")
	t.Setenv("RESEARCH_LLM_DEFAULT_PROVIDER", "local")
	t.Setenv("RESEARCH_LLM_MODEL", "qwen2.5")

	cfg := Defaults()
	cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{Name: "local", Type: "openai"})
	ApplyEnvOverrides(cfg)

	local, _ := cfg.LLM.Provider("local")
	if local.APIKey != "sk-local" || local.Model != "qwen2.5" {
		t.Errorf("local = %+v", local)
	}
	groq, _ := cfg.LLM.Provider("groq")
	if groq.Model != "llama3-70b-8192" {
		t.Errorf("groq model changed to %q", groq.Model)
	}
}

func TestApplyEnvOverrides_IgnoresUnparsable(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESEARCH_LLM_MAX_TOKENS", "lots")
	t.Setenv("RESEARCH_SEARCH_TIMEOUT", "soon")
	t.Setenv("RESEARCH_UI_ASCII", "maybe")

	cfg := Defaults()
	ApplyEnvOverrides(cfg)

	if cfg.LLM.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d, want default", cfg.LLM.MaxTokens)
	}
	if cfg.Search.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want default", cfg.Search.Timeout)
	}
	if cfg.UI.ASCII {
		t.Error("ASCII should stay false")
	}
}

func TestApplyEnvOverrides_ASCIIFlag(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE"} {
		clearEnv(t)
		t.Setenv("RESEARCH_UI_ASCII", v)
		cfg := Defaults()
		ApplyEnvOverrides(cfg)
		if !cfg.UI.ASCII {
			t.Errorf("RESEARCH_UI_ASCII=%q did not enable ASCII", v)
		}
	}
}
