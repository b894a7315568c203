package search

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/domain"
)

func TestTrailerQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dune", "Dune official trailer movie"},
		{"Dune trailer", "Dune trailer movie"},
		{"Dune film", "Dune film official trailer"},
		{"The Bear series trailer", "The Bear series trailer"},
		{"Severance TV", "Severance TV official trailer"},
		{"  Alien  ", "Alien official trailer movie"},
		{"Showdown", "Showdown official trailer movie"},
		{"Stvx", "Stvx official trailer movie"},
		{"Filmore trailer", "Filmore trailer movie"},
		{"Shogun (TV)", "Shogun (TV) official trailer"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrailerQuery(tt.in), "query %q", tt.in)
	}
}

func TestNewYouTubeRequiresKey(t *testing.T) {
	_, err := NewYouTube(testSearchConfig(), newTestLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigMissing)
	assert.Contains(t, err.Error(), "YOUTUBE_API_KEY")
}

func newTestYouTube(t *testing.T, handler http.HandlerFunc) *YouTube {
	t.Helper()
	srv := newTestServer(t, handler)
	cfg := testSearchConfig()
	cfg.YouTubeURL = srv.URL
	cfg.YouTubeAPIKey = "yt-key"
	y, err := NewYouTube(cfg, newTestLogger())
	require.NoError(t, err)
	return y
}

func TestYouTubeSearch(t *testing.T) {
	y := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "1", q.Get("maxResults"))
		assert.Equal(t, "yt-key", q.Get("key"))
		assert.Equal(t, "Inception official trailer movie", q.Get("q"))

		writeJSON(w, map[string]any{
			"items": []map[string]any{{
				"id": map[string]string{"kind": "youtube#video", "videoId": "YoHD9XEInc0"},
				"snippet": map[string]string{
					"title":        "Inception (2010) Official Trailer #1 - Christopher Nolan Movie HD",
					"description":  "Dom Cobb is a skilled thief, the absolute best in the dangerous art of extraction.",
					"channelTitle": "Movieclips Classic Trailers",
					"publishedAt":  "2011-10-26T19:00:01Z",
				},
			}},
		})
	})

	res := y.Search(context.Background(), "Inception")
	require.False(t, res.Failed(), res.Error)
	assert.Equal(t, "YouTube Trailer Search", res.ToolName)
	assert.Equal(t, "Inception", res.Query, "result keeps the original query")
	require.Len(t, res.Items, 1)

	v := res.Items[0].(domain.VideoResult)
	assert.Equal(t, "https://www.youtube.com/watch?v=YoHD9XEInc0", v.PrimaryLink())
	assert.Equal(t, "Channel: Movieclips Classic Trailers", v.SummaryLines()[0])
}

func TestYouTubeUnescapesTitles(t *testing.T) {
	y := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []map[string]any{{
				"id":      map[string]string{"videoId": "abc"},
				"snippet": map[string]string{"title": "Ocean&#39;s Eleven &amp; Twelve", "channelTitle": "WB"},
			}},
		})
	})

	res := y.Search(context.Background(), "Ocean's Eleven")
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ocean's Eleven & Twelve", res.Items[0].Title())
}

func TestYouTubeNoItems(t *testing.T) {
	y := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}})
	})

	res := y.Search(context.Background(), "zzqxj")
	assert.False(t, res.Failed())
	assert.True(t, res.Empty())
}

func TestYouTubeQuotaError(t *testing.T) {
	y := newTestYouTube(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, map[string]any{
			"error": map[string]any{"code": 403, "message": "The request cannot be completed because you have exceeded your quota."},
		})
	})

	res := y.Search(context.Background(), "Dune")
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "exceeded your quota")
	assert.Equal(t, "Dune", res.Query)
}
