package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"research-assistant/internal/domain"
)

// Config is the root configuration.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Search SearchConfig `yaml:"search"`
	UI     UIConfig     `yaml:"ui"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// LLMConfig holds language model provider settings.
type LLMConfig struct {
	DefaultProvider string               `yaml:"default_provider"`
	Providers       []ProviderConfig     `yaml:"providers"`
	CircuitBreaker  CircuitBreakerConfig `yaml:"circuit_breaker"`
	MaxTokens       int                  `yaml:"max_tokens"`
}

// CircuitBreakerConfig holds circuit breaker settings for LLM providers.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
	RespTimeout time.Duration `yaml:"resp_timeout"`
}

// SearchConfig selects the default search provider and configures each backend.
type SearchConfig struct {
	Default         string        `yaml:"default"`     // "web", "movie", "trailer" or "none"
	WebBackend      string        `yaml:"web_backend"` // "duckduckgo" or "searxng"
	MaxResults      int           `yaml:"max_results"`
	MovieCandidates int           `yaml:"movie_candidates"`
	Timeout         time.Duration `yaml:"timeout"`
	MinInterval     time.Duration `yaml:"min_interval"` // pacing between DuckDuckGo scrapes; 0 disables

	DuckDuckGoURL string `yaml:"duckduckgo_url"`
	SearXNGURL    string `yaml:"searxng_url"`
	OMDbURL       string `yaml:"omdb_url"`
	OMDbAPIKey    string `yaml:"omdb_api_key"`
	YouTubeURL    string `yaml:"youtube_url"`
	YouTubeAPIKey string `yaml:"youtube_api_key"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Title       string `yaml:"title"`
	ASCII       bool   `yaml:"ascii"`
	StreamSpeed string `yaml:"stream_speed"` // normal, fast or instant
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"` // file path for the "file" exporter
}

// Provider returns the provider config with the given name.
func (c *LLMConfig) Provider(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// eachProvider calls fn with a pointer to every provider config.
func (c *LLMConfig) eachProvider(fn func(p *ProviderConfig)) {
	for i := range c.Providers {
		fn(&c.Providers[i])
	}
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			DefaultProvider: "groq",
			Providers: []ProviderConfig{
				{
					Name:        "groq",
					Type:        "groq",
					Model:       "llama3-70b-8192",
					ConnTimeout: 30 * time.Second,
					RespTimeout: 120 * time.Second,
				},
			},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
			MaxTokens: 1000,
		},
		Search: SearchConfig{
			Default:         "web",
			WebBackend:      "duckduckgo",
			MaxResults:      5,
			MovieCandidates: 3,
			Timeout:         15 * time.Second,
			MinInterval:     time.Second,
			SearXNGURL:      "http://localhost:8888",
		},
		UI: UIConfig{
			Title:       "RAG Research Assistant",
			StreamSpeed: "normal",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "research-assistant.log",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path if it
// exists, then environment overrides, then decryption of "enc:" secrets when
// RESEARCH_CONFIG_KEY is set. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("RESEARCH_CONFIG_KEY"); passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDecryption, err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges the YAML at path into cfg. A missing file is fine.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("%w: read %s: %w", domain.ErrConfigLoad, path, err)
	}

	if err := checkPermissions(path); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrConfigLoad, path, err)
	}
	return nil
}

// checkPermissions rejects config files that other users can write.
func checkPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", domain.ErrConfigLoad, path, err)
	}
	if mode := info.Mode().Perm(); mode&0o022 != 0 {
		return fmt.Errorf("%w: config file %s has insecure permissions %o (want 0600 or 0644)", domain.ErrConfigLoad, path, mode)
	}
	return nil
}
