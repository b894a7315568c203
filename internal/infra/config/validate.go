package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"research-assistant/internal/domain"
)

// ValidationError collects every problem found in a config. It unwraps to
// domain.ErrConfigLoad.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

func (v *ValidationError) Unwrap() error { return domain.ErrConfigLoad }

// HasErrors reports whether any problem was recorded.
func (v *ValidationError) HasErrors() bool { return len(v.Errors) > 0 }

// Add records a formatted problem.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// check records the problem when ok is false.
func (v *ValidationError) check(ok bool, format string, args ...any) {
	if !ok {
		v.Add(format, args...)
	}
}

// oneOf records a problem when value is not among allowed.
func (v *ValidationError) oneOf(field, value string, allowed ...string) {
	if slices.Contains(allowed, value) {
		return
	}
	names := slices.DeleteFunc(slices.Clone(allowed), func(s string) bool { return s == "" })
	v.Add("%s %q is invalid (want: %s)", field, value, strings.Join(names, ", "))
}

// Validate checks cfg for structural correctness and returns a
// *ValidationError listing every problem.
//
// Credentials are not checked here: a missing key only matters for the
// component that needs it, and that component reports it at construction.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLLM(&cfg.LLM, ve)
	validateSearch(&cfg.Search, ve)

	ve.oneOf("logger.format", strings.ToLower(cfg.Logger.Format), "text", "json")

	ve.oneOf("tracer.exporter", cfg.Tracer.Exporter, "", "noop", "stdout", "file")
	ve.check(!cfg.Tracer.Enabled || cfg.Tracer.Exporter != "file" || cfg.Tracer.Endpoint != "",
		"tracer.endpoint is required for the file exporter")

	ve.oneOf("ui.stream_speed", strings.ToLower(cfg.UI.StreamSpeed), "", "normal", "fast", "instant")

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateLLM(llm *LLMConfig, ve *ValidationError) {
	ve.check(llm.DefaultProvider != "", "llm.default_provider must not be empty")
	ve.check(llm.MaxTokens > 0, "llm.max_tokens must be > 0")
	ve.check(!llm.CircuitBreaker.Enabled || llm.CircuitBreaker.MaxFailures > 0,
		"llm.circuit_breaker.max_failures must be > 0 when enabled")

	if len(llm.Providers) == 0 {
		ve.Add("llm.providers must not be empty")
		return
	}

	seen := make(map[string]bool, len(llm.Providers))
	for i, p := range llm.Providers {
		field := fmt.Sprintf("llm.providers[%d]", i)
		if p.Name == "" {
			ve.Add("%s.name must not be empty", field)
			continue
		}
		ve.check(!seen[p.Name], "%s: duplicate provider name %q", field, p.Name)
		seen[p.Name] = true

		if p.Type != "" {
			ve.oneOf(field+".type", p.Type, "groq", "openai")
		}
		if p.BaseURL != "" {
			_, err := url.ParseRequestURI(p.BaseURL)
			ve.check(err == nil, "%s (%s): base_url %q is not a valid URL", field, p.Name, p.BaseURL)
		}
	}

	if llm.DefaultProvider != "" {
		ve.check(seen[llm.DefaultProvider],
			"llm.default_provider %q does not match any configured provider", llm.DefaultProvider)
	}
}

func validateSearch(s *SearchConfig, ve *ValidationError) {
	ve.oneOf("search.default", s.Default, "web", "movie", "trailer", "none")
	ve.oneOf("search.web_backend", s.WebBackend, "duckduckgo", "searxng")
	ve.check(s.WebBackend != "searxng" || s.SearXNGURL != "",
		"search.searxng_url is required when web_backend is searxng")
	ve.check(s.MaxResults >= 1 && s.MaxResults <= 10, "search.max_results must be between 1 and 10")
	ve.check(s.MovieCandidates >= 1, "search.movie_candidates must be > 0")
	ve.check(s.Timeout > 0, "search.timeout must be > 0")
	ve.check(s.MinInterval >= 0, "search.min_interval must be >= 0")
}
