package search

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

const (
	duckDuckGoToolName   = "DuckDuckGo Search"
	defaultDuckDuckGoURL = "https://lite.duckduckgo.com/lite/"
	defaultMaxResults    = 5
)

// DuckDuckGo searches the web by scraping DuckDuckGo's lite HTML interface.
// No credential is required.
type DuckDuckGo struct {
	client     *http.Client
	endpoint   string
	maxResults int
	limiter    *rate.Limiter // nil disables pacing
	logger     *slog.Logger
}

// NewDuckDuckGo creates a DuckDuckGo provider. Outbound requests are spaced
// at least cfg.MinInterval apart.
func NewDuckDuckGo(cfg config.SearchConfig, logger *slog.Logger) *DuckDuckGo {
	endpoint := cfg.DuckDuckGoURL
	if endpoint == "" {
		endpoint = defaultDuckDuckGoURL
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &DuckDuckGo{
		client:     newHTTPClient(cfg.Timeout),
		endpoint:   endpoint,
		maxResults: maxResults,
		limiter:    newPacer(cfg.MinInterval),
		logger:     logger,
	}
}

func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func (d *DuckDuckGo) Name() string            { return duckDuckGoToolName }
func (d *DuckDuckGo) Key() domain.ProviderKey { return domain.ProviderWeb }

// Search implements domain.SearchProvider.
func (d *DuckDuckGo) Search(ctx context.Context, query string) domain.ToolResult {
	return run(ctx, d.Key(), d.Name(), query, d.logger,
		func(ctx context.Context, span trace.Span) ([]domain.ResultItem, error) {
			if d.limiter != nil {
				if err := d.limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("duckduckgo: wait for pacing: %w", err)
				}
			}

			form := url.Values{}
			form.Set("q", query)

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
			if err != nil {
				return nil, fmt.Errorf("duckduckgo: create request: %w", err)
			}
			req.Header.Set("User-Agent", userAgent)
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			body, err := doRequest(d.client, req, "DuckDuckGo.Search")
			if err != nil {
				return nil, err
			}
			return parseLiteResults(body, d.maxResults)
		},
	)
}

// parseLiteResults extracts up to limit results from a lite results page.
// Each hit is an a.result-link row followed by a row holding its
// td.result-snippet. Sponsored links are skipped.
func parseLiteResults(body []byte, limit int) ([]domain.ResultItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse html: %w", err)
	}

	links := doc.Find("a.result-link")
	if links.Length() == 0 && isChallengePage(doc) {
		return nil, domain.NewSubSystemError("search", "DuckDuckGo.Search", domain.ErrRateLimit,
			"request was answered with a bot challenge")
	}

	var items []domain.ResultItem
	links.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		link := resolveResultLink(href)
		title := collapseSpace(s.Text())
		if link == "" || title == "" {
			return true
		}

		snippet := collapseSpace(s.Closest("tr").Next().Find("td.result-snippet").Text())

		items = append(items, domain.GenericResult{Name: title, Link: link, Summary: snippet})
		return len(items) < limit
	})
	return items, nil
}

// resolveResultLink unwraps DuckDuckGo redirect links and drops ad links.
func resolveResultLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") {
		switch u.Path {
		case "/l/":
			return u.Query().Get("uddg")
		case "/y.js":
			return ""
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func isChallengePage(doc *goquery.Document) bool {
	if doc.Find("form#challenge-form").Length() > 0 {
		return true
	}
	return strings.Contains(strings.ToLower(doc.Text()), "anomaly")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ domain.SearchProvider = (*DuckDuckGo)(nil)
