package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"research-assistant/internal/infra/config"
)

// CheckStatus is the outcome category of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// String renders the status as a fixed-width tag.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass, StatusWarn, StatusFail:
		return "[" + string(s) + "]"
	}
	return "[????]"
}

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string
}

func passed(format string, args ...any) CheckResult {
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf(format, args...)}
}

func warned(fix, format string, args ...any) CheckResult {
	return CheckResult{Status: StatusWarn, Message: fmt.Sprintf(format, args...), Fix: fix}
}

func failed(fix, format string, args ...any) CheckResult {
	return CheckResult{Status: StatusFail, Message: fmt.Sprintf(format, args...), Fix: fix}
}

// CheckFunc inspects one aspect of the setup. cfg is nil when loading failed.
type CheckFunc func(ctx context.Context, cfg *config.Config) CheckResult

// Check is a named health check.
type Check struct {
	Name string
	Fn   CheckFunc
}

// needsConfig short-circuits fn with the given status when no config loaded.
func needsConfig(status CheckStatus, fn CheckFunc) CheckFunc {
	return func(ctx context.Context, cfg *config.Config) CheckResult {
		if cfg == nil {
			return CheckResult{Status: status, Message: "cannot check, config not loaded"}
		}
		return fn(ctx, cfg)
	}
}

const (
	groqModelsURL   = "https://api.groq.com/openai/v1/models"
	openAIModelsURL = "https://api.openai.com/v1/models"
)

// runDoctor loads the config named by args and prints every check to out.
func runDoctor(ctx context.Context, args []string, out io.Writer) error {
	flags := parseFlags(args)
	path := configPath(flags)

	cfg, cfgErr := config.Load(path)
	if cfg != nil {
		cfgErr = applyFlags(cfg, flags)
	}
	if cfgErr != nil {
		cfg = nil
	}

	checks := []Check{
		{Name: "Config file", Fn: checkConfigFile(path, cfgErr)},
		{Name: "Groq API key", Fn: needsConfig(StatusFail, checkLLMAPIKey)},
		{Name: "Groq connectivity", Fn: needsConfig(StatusFail, checkLLMConnectivity)},
		{Name: "Search credentials", Fn: needsConfig(StatusWarn, checkSearchCredentials)},
		{Name: "Network", Fn: checkNetwork},
		{Name: "SearXNG", Fn: needsConfig(StatusWarn, checkSearXNG)},
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintf(out, "research-assistant doctor\n%s\n\n", rule)

	pass, warn, fail := runChecks(ctx, checks, cfg, out)

	fmt.Fprintf(out, "\n%s\nResults: %d passed, %d warnings, %d failed\n", strings.Repeat("-", 50), pass, warn, fail)
	switch {
	case fail > 0:
		fmt.Fprintln(out, "\nFix the FAIL issues above before starting the assistant.")
		return fmt.Errorf("%d check(s) failed", fail)
	case warn > 0:
		fmt.Fprintln(out, "\nThe assistant should work, but consider addressing the warnings.")
	default:
		fmt.Fprintln(out, "\nAll checks passed! The assistant is ready to run.")
	}
	return nil
}

// runChecks prints each result and returns the tallies.
func runChecks(ctx context.Context, checks []Check, cfg *config.Config, out io.Writer) (pass, warn, fail int) {
	tally := map[CheckStatus]*int{StatusPass: &pass, StatusWarn: &warn, StatusFail: &fail}
	for _, c := range checks {
		r := c.Fn(ctx, cfg)
		r.Name = c.Name

		fmt.Fprintf(out, "  %s %s: %s\n", r.Status, r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(out, "      Fix: %s\n", r.Fix)
		}
		if n, ok := tally[r.Status]; ok {
			*n++
		}
	}
	return pass, warn, fail
}

// checkConfigFile reports whether the config file was found and loaded.
// The file is optional: defaults plus environment variables are enough.
func checkConfigFile(path string, loadErr error) CheckFunc {
	return func(context.Context, *config.Config) CheckResult {
		if loadErr != nil {
			return failed("Check the syntax and values in "+path, "config error: %v", loadErr)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return warned("Create config.yaml to change models, search providers or logging",
				"no config file at %s, using defaults and environment", path)
		}
		return passed("config loaded from %s", path)
	}
}

// defaultProvider looks up the default LLM provider, or explains its absence.
func defaultProvider(cfg *config.Config) (config.ProviderConfig, *CheckResult) {
	pc, ok := cfg.LLM.Provider(cfg.LLM.DefaultProvider)
	if !ok {
		r := failed("Add it under llm.providers or change llm.default_provider",
			"default provider %q not found in config", cfg.LLM.DefaultProvider)
		return pc, &r
	}
	return pc, nil
}

func checkLLMAPIKey(_ context.Context, cfg *config.Config) CheckResult {
	pc, bad := defaultProvider(cfg)
	switch {
	case bad != nil:
		return *bad
	case pc.APIKey == "":
		return failed("export GROQ_API_KEY=gsk_... (or set api_key in config.yaml)",
			"no API key for provider %s", pc.Name)
	case strings.HasPrefix(pc.APIKey, "enc:"):
		return failed("export RESEARCH_CONFIG_KEY with the passphrase used by 'research-assistant encrypt'",
			"API key for %s is encrypted but RESEARCH_CONFIG_KEY is not set", pc.Name)
	}
	return passed("API key configured for %s (model %s)", pc.Name, pc.Model)
}

// checkLLMConnectivity probes the default provider's models endpoint. Any
// HTTP response counts; authentication is exercised by the first query.
func checkLLMConnectivity(ctx context.Context, cfg *config.Config) CheckResult {
	pc, bad := defaultProvider(cfg)
	switch {
	case bad != nil:
		return *bad
	case pc.APIKey == "":
		return warned("", "skipped, no API key for default provider")
	}

	endpoint := providerEndpoint(pc)
	latency, err := probe(ctx, endpoint, 10*time.Second)
	if err != nil {
		return failed("Check your internet connection and firewall settings", "cannot reach %s: %v", endpoint, err)
	}
	return passed("%s reachable (latency: %dms)", pc.Name, latency.Milliseconds())
}

// providerEndpoint returns the models listing URL for a provider.
func providerEndpoint(pc config.ProviderConfig) string {
	switch {
	case pc.BaseURL != "":
		return strings.TrimRight(pc.BaseURL, "/") + "/models"
	case pc.Type == "openai":
		return openAIModelsURL
	}
	return groqModelsURL
}

// searchCredential names the key each search provider needs.
var searchCredential = map[string]struct {
	label string
	env   string
	get   func(*config.SearchConfig) string
}{
	"movie":   {"OMDb", "OMDB_API_KEY", func(s *config.SearchConfig) string { return s.OMDbAPIKey }},
	"trailer": {"YouTube", "YOUTUBE_API_KEY", func(s *config.SearchConfig) string { return s.YouTubeAPIKey }},
}

func checkSearchCredentials(_ context.Context, cfg *config.Config) CheckResult {
	name := cfg.Search.Default
	if name == "none" || name == "" {
		return passed("search disabled, answers use the model only")
	}
	cred, ok := searchCredential[name]
	if !ok {
		return passed("web search via %s needs no credentials", cfg.Search.WebBackend)
	}
	if cred.get(&cfg.Search) == "" {
		return failed(fmt.Sprintf("export %s=... or choose --search web", cred.env),
			"%s search selected but no %s API key", name, cred.label)
	}
	return passed("%s API key configured", cred.label)
}

// checkNetwork verifies basic outbound TCP connectivity.
func checkNetwork(ctx context.Context, _ *config.Config) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d net.Dialer
	for _, addr := range []string{"1.1.1.1:443", "8.8.8.8:443"} {
		if conn, err := d.DialContext(ctx, "tcp", addr); err == nil {
			conn.Close()
			return passed("internet connectivity OK")
		}
	}
	return failed("Check your network connection and firewall settings", "no internet connectivity detected")
}

// checkSearXNG probes the SearXNG instance when it backs web search.
func checkSearXNG(ctx context.Context, cfg *config.Config) CheckResult {
	if cfg.Search.WebBackend != "searxng" {
		return passed("web backend is %q, SearXNG not required", cfg.Search.WebBackend)
	}
	url := cfg.Search.SearXNGURL
	if _, err := probe(ctx, url, 5*time.Second); err != nil {
		return failed("Start SearXNG (docker compose up -d searxng) or update search.searxng_url",
			"SearXNG not reachable at %s: %v", url, err)
	}
	return passed("SearXNG reachable at %s", url)
}

// probe issues a GET and reports the round-trip latency.
func probe(ctx context.Context, url string, timeout time.Duration) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return time.Since(start), nil
}
