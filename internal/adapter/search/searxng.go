package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

const searXNGToolName = "SearXNG Search"

// searxngResponse models the relevant portion of the SearXNG JSON response.
type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Engine  string `json:"engine"`
	} `json:"results"`
	NumberOfResults int `json:"number_of_results"`
}

// SearXNG searches the web via a SearXNG instance's JSON API.
type SearXNG struct {
	client      *http.Client
	instanceURL string
	maxResults  int
	logger      *slog.Logger
}

// NewSearXNG creates a web search provider backed by the instance at
// cfg.SearXNGURL.
func NewSearXNG(cfg config.SearchConfig, logger *slog.Logger) *SearXNG {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &SearXNG{
		client:      newHTTPClient(cfg.Timeout),
		instanceURL: strings.TrimRight(cfg.SearXNGURL, "/"),
		maxResults:  maxResults,
		logger:      logger,
	}
}

func (s *SearXNG) Name() string            { return searXNGToolName }
func (s *SearXNG) Key() domain.ProviderKey { return domain.ProviderWeb }

// Search implements domain.SearchProvider.
func (s *SearXNG) Search(ctx context.Context, query string) domain.ToolResult {
	return run(ctx, s.Key(), s.Name(), query, s.logger,
		func(ctx context.Context, span trace.Span) ([]domain.ResultItem, error) {
			params := url.Values{}
			params.Set("q", query)
			params.Set("format", "json")
			params.Set("pageno", "1")

			var resp searxngResponse
			if err := getJSON(ctx, s.client, s.instanceURL+"/search?"+params.Encode(), "SearXNG.Search", &resp); err != nil {
				return nil, err
			}

			items := make([]domain.ResultItem, 0, min(len(resp.Results), s.maxResults))
			for _, r := range resp.Results {
				if len(items) >= s.maxResults {
					break
				}
				items = append(items, domain.GenericResult{
					Name:    strings.TrimSpace(r.Title),
					Link:    r.URL,
					Summary: collapseSpace(r.Content),
				})
			}
			return items, nil
		},
	)
}

var _ domain.SearchProvider = (*SearXNG)(nil)
