package config

import (
	"os"
	"strconv"
	"time"
)

// envBinding maps one environment variable onto the config. Values that do
// not parse are ignored.
type envBinding struct {
	key   string
	apply func(cfg *Config, v string)
}

func setString(field func(*Config) *string) func(*Config, string) {
	return func(c *Config, v string) { *field(c) = v }
}

func setInt(field func(*Config) *int) func(*Config, string) {
	return func(c *Config, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*field(c) = n
		}
	}
}

func setDuration(field func(*Config) *time.Duration) func(*Config, string) {
	return func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			*field(c) = d
		}
	}
}

func setBool(field func(*Config) *bool) func(*Config, string) {
	return func(c *Config, v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			*field(c) = b
		}
	}
}

func providerKey(typ string) func(*Config, string) {
	return func(c *Config, v string) {
		c.LLM.eachProvider(func(p *ProviderConfig) {
			if p.Type == typ {
				p.APIKey = v
			}
		})
	}
}

// envBindings are applied in order; the default provider is settled before
// the model override that targets it.
var envBindings = []envBinding{
	{"GROQ_API_KEY", providerKey("groq")},
	{"OPENAI_API_KEY", providerKey("openai")},
	{"OMDB_API_KEY", setString(func(c *Config) *string { return &c.Search.OMDbAPIKey })},
	{"YOUTUBE_API_KEY", setString(func(c *Config) *string { return &c.Search.YouTubeAPIKey })},

	{"RESEARCH_LLM_DEFAULT_PROVIDER", setString(func(c *Config) *string { return &c.LLM.DefaultProvider })},
	{"RESEARCH_LLM_MODEL", func(c *Config, v string) {
		c.LLM.eachProvider(func(p *ProviderConfig) {
			if p.Name == c.LLM.DefaultProvider {
				p.Model = v
			}
		})
	}},
	{"RESEARCH_LLM_MAX_TOKENS", setInt(func(c *Config) *int { return &c.LLM.MaxTokens })},

	{"RESEARCH_SEARCH_DEFAULT", setString(func(c *Config) *string { return &c.Search.Default })},
	{"RESEARCH_SEARCH_WEB_BACKEND", setString(func(c *Config) *string { return &c.Search.WebBackend })},
	{"RESEARCH_SEARCH_SEARXNG_URL", setString(func(c *Config) *string { return &c.Search.SearXNGURL })},
	{"RESEARCH_SEARCH_MIN_INTERVAL", setDuration(func(c *Config) *time.Duration { return &c.Search.MinInterval })},
	{"RESEARCH_SEARCH_TIMEOUT", setDuration(func(c *Config) *time.Duration { return &c.Search.Timeout })},

	{"RESEARCH_LOGGER_LEVEL", setString(func(c *Config) *string { return &c.Logger.Level })},
	{"RESEARCH_LOGGER_FORMAT", setString(func(c *Config) *string { return &c.Logger.Format })},
	{"RESEARCH_LOGGER_OUTPUT", setString(func(c *Config) *string { return &c.Logger.Output })},

	{"RESEARCH_TRACER_ENABLED", setBool(func(c *Config) *bool { return &c.Tracer.Enabled })},
	{"RESEARCH_TRACER_EXPORTER", setString(func(c *Config) *string { return &c.Tracer.Exporter })},
	{"RESEARCH_TRACER_ENDPOINT", setString(func(c *Config) *string { return &c.Tracer.Endpoint })},

	{"RESEARCH_UI_ASCII", setBool(func(c *Config) *bool { return &c.UI.ASCII })},
	{"RESEARCH_UI_STREAM_SPEED", setString(func(c *Config) *string { return &c.UI.StreamSpeed })},
}

// ApplyEnvOverrides applies every set, non-empty variable in envBindings.
func ApplyEnvOverrides(cfg *Config) {
	for _, b := range envBindings {
		if v := os.Getenv(b.key); v != "" {
			b.apply(cfg, v)
		}
	}
}
