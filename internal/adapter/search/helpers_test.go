package search

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"research-assistant/internal/infra/config"
)

func newTestLogger() *slog.Logger { return slog.Default() }

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		Default:         "web",
		WebBackend:      "duckduckgo",
		MaxResults:      5,
		MovieCandidates: 3,
		Timeout:         5 * time.Second,
	}
}
