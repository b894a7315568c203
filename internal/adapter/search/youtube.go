package search

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
	"research-assistant/internal/infra/tracer"
)

const (
	youTubeToolName   = "YouTube Trailer Search"
	defaultYouTubeURL = "https://www.googleapis.com/youtube/v3"
)

// mediaHints are words that already tell the video search what kind of
// title the query names.
var mediaHints = []string{"movie", "film", "series", "show", "tv"}

// YouTube finds the official trailer for a title through the YouTube Data
// API v3. Only the top hit is returned.
type YouTube struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewYouTube creates a trailer provider. The API key is required.
func NewYouTube(cfg config.SearchConfig, logger *slog.Logger) (*YouTube, error) {
	if cfg.YouTubeAPIKey == "" {
		return nil, domain.NewSubSystemError("search", "search.NewYouTube", domain.ErrConfigMissing,
			"YOUTUBE_API_KEY is not set")
	}
	baseURL := strings.TrimRight(cfg.YouTubeURL, "/")
	if baseURL == "" {
		baseURL = defaultYouTubeURL
	}
	return &YouTube{
		client:  newHTTPClient(cfg.Timeout),
		baseURL: baseURL,
		apiKey:  cfg.YouTubeAPIKey,
		logger:  logger,
	}, nil
}

func (y *YouTube) Name() string            { return youTubeToolName }
func (y *YouTube) Key() domain.ProviderKey { return domain.ProviderTrailer }

// TrailerQuery rewrites a user query into a trailer search. It appends
// "official trailer" unless the query mentions a trailer, then "movie"
// unless one of the query's words is a media hint.
func TrailerQuery(query string) string {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	if !strings.Contains(lower, "trailer") {
		q += " official trailer"
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if !slices.ContainsFunc(words, func(w string) bool { return slices.Contains(mediaHints, w) }) {
		q += " movie"
	}
	return q
}

type youTubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search implements domain.SearchProvider. The rewritten query is used only
// for the outbound request; the result carries the original query.
func (y *YouTube) Search(ctx context.Context, query string) domain.ToolResult {
	return run(ctx, y.Key(), y.Name(), query, y.logger,
		func(ctx context.Context, span trace.Span) ([]domain.ResultItem, error) {
			rewritten := TrailerQuery(query)
			span.SetAttributes(tracer.StringAttr("search.rewritten_query", rewritten))

			params := url.Values{}
			params.Set("part", "snippet")
			params.Set("q", rewritten)
			params.Set("type", "video")
			params.Set("maxResults", "1")
			params.Set("key", y.apiKey)

			var resp youTubeSearchResponse
			if err := getJSON(ctx, y.client, y.baseURL+"/search?"+params.Encode(), "YouTube.Search", &resp); err != nil {
				return nil, err
			}

			var items []domain.ResultItem
			for _, it := range resp.Items {
				if it.ID.VideoID == "" {
					continue
				}
				items = append(items, domain.VideoResult{
					VideoID:     it.ID.VideoID,
					Name:        html.UnescapeString(it.Snippet.Title),
					Channel:     html.UnescapeString(it.Snippet.ChannelTitle),
					Description: html.UnescapeString(it.Snippet.Description),
					PublishedAt: it.Snippet.PublishedAt,
				})
			}
			return items, nil
		},
	)
}

var _ domain.SearchProvider = (*YouTube)(nil)
