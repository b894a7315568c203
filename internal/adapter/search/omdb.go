package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
	"research-assistant/internal/infra/tracer"
)

const (
	omdbToolName           = "OMDb Movie Search"
	defaultOMDbURL         = "https://www.omdbapi.com/"
	defaultMovieCandidates = 3
	omdbNotFound           = "Movie not found!"
)

// OMDb looks up film and series metadata. A search call lists candidates;
// each of the first few is then fetched in detail, one after another.
type OMDb struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	candidates int
	logger     *slog.Logger
}

// NewOMDb creates an OMDb provider. The API key is required.
func NewOMDb(cfg config.SearchConfig, logger *slog.Logger) (*OMDb, error) {
	if cfg.OMDbAPIKey == "" {
		return nil, domain.NewSubSystemError("search", "search.NewOMDb", domain.ErrConfigMissing,
			"OMDB_API_KEY is not set")
	}
	baseURL := cfg.OMDbURL
	if baseURL == "" {
		baseURL = defaultOMDbURL
	}
	candidates := cfg.MovieCandidates
	if candidates <= 0 {
		candidates = defaultMovieCandidates
	}

	return &OMDb{
		client:     newHTTPClient(cfg.Timeout),
		baseURL:    baseURL,
		apiKey:     cfg.OMDbAPIKey,
		candidates: candidates,
		logger:     logger,
	}, nil
}

func (o *OMDb) Name() string            { return omdbToolName }
func (o *OMDb) Key() domain.ProviderKey { return domain.ProviderMovie }

// omdbEnvelope carries the status fields shared by every OMDb response.
// Failures come back as HTTP 200 with Response "False".
type omdbEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

type omdbSearchResponse struct {
	omdbEnvelope
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
		Type   string `json:"Type"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
}

type omdbTitle struct {
	omdbEnvelope
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Type       string `json:"Type"`
}

// Search implements domain.SearchProvider.
func (o *OMDb) Search(ctx context.Context, query string) domain.ToolResult {
	return run(ctx, o.Key(), o.Name(), query, o.logger,
		func(ctx context.Context, span trace.Span) ([]domain.ResultItem, error) {
			var found omdbSearchResponse
			if err := o.get(ctx, url.Values{"s": {query}}, "OMDb.Search", &found); err != nil {
				return nil, err
			}
			if found.Response == "False" {
				if found.Error == omdbNotFound {
					return nil, nil
				}
				return nil, omdbError("OMDb.Search", found.Error)
			}

			ids := make([]string, 0, o.candidates)
			for _, c := range found.Search {
				if len(ids) == o.candidates {
					break
				}
				if c.IMDbID != "" {
					ids = append(ids, c.IMDbID)
				}
			}
			span.SetAttributes(tracer.IntAttr("search.candidates", len(ids)))

			var items []domain.ResultItem
			var lastErr error
			for _, id := range ids {
				movie, err := o.detail(ctx, id)
				if err != nil {
					o.logger.Debug("omdb detail lookup failed", "imdb_id", id, "error", err)
					lastErr = err
					continue
				}
				items = append(items, movie)
			}
			if len(items) == 0 && lastErr != nil {
				return nil, fmt.Errorf("%w: all %d detail lookups failed: %v", domain.ErrSearchFailed, len(ids), lastErr)
			}
			return items, nil
		},
	)
}

func (o *OMDb) detail(ctx context.Context, imdbID string) (domain.MovieSummary, error) {
	var t omdbTitle
	if err := o.get(ctx, url.Values{"i": {imdbID}, "plot": {"short"}}, "OMDb.Detail", &t); err != nil {
		return domain.MovieSummary{}, err
	}
	if t.Response == "False" {
		return domain.MovieSummary{}, omdbError("OMDb.Detail", t.Error)
	}

	return domain.MovieSummary{
		Name:       t.Title,
		Year:       known(t.Year),
		Kind:       known(t.Type),
		Rated:      known(t.Rated),
		Runtime:    known(t.Runtime),
		Genre:      known(t.Genre),
		Director:   known(t.Director),
		Actors:     known(t.Actors),
		Plot:       known(t.Plot),
		IMDbRating: known(t.IMDbRating),
		IMDbID:     t.IMDbID,
		Poster:     known(t.Poster),
	}, nil
}

func (o *OMDb) get(ctx context.Context, params url.Values, op string, out any) error {
	params.Set("apikey", o.apiKey)
	sep := "?"
	if strings.Contains(o.baseURL, "?") {
		sep = "&"
	}
	return getJSON(ctx, o.client, o.baseURL+sep+params.Encode(), op, out)
}

func omdbError(op, msg string) error {
	if msg == "" {
		msg = "unknown OMDb error"
	}
	if strings.Contains(strings.ToLower(msg), "api key") {
		return domain.NewSubSystemError("search", op, domain.ErrAuthInvalid, msg)
	}
	return domain.NewSubSystemError("search", op, domain.ErrSearchFailed, msg)
}

// known maps OMDb's "N/A" placeholder to the empty string.
func known(v string) string {
	if v == "N/A" {
		return ""
	}
	return v
}

var _ domain.SearchProvider = (*OMDb)(nil)
