package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/domain"
)

func newTestSearXNG(t *testing.T, rt roundTripFunc) *SearXNG {
	t.Helper()
	cfg := testSearchConfig()
	cfg.WebBackend = "searxng"
	cfg.SearXNGURL = "http://localhost:8080/"
	s := NewSearXNG(cfg, newTestLogger())
	s.client = &http.Client{Transport: rt}
	return s
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestSearXNGTrailingSlashTrimmed(t *testing.T) {
	s := newTestSearXNG(t, nil)
	assert.Equal(t, "http://localhost:8080", s.instanceURL)
	assert.Equal(t, "SearXNG Search", s.Name())
	assert.Equal(t, domain.ProviderWeb, s.Key())
}

func TestSearXNGSuccess(t *testing.T) {
	s := newTestSearXNG(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, "/search", req.URL.Path)
		assert.Equal(t, "golang testing", req.URL.Query().Get("q"))
		assert.Equal(t, "json", req.URL.Query().Get("format"))

		return jsonResponse(200, `{"results":[{"title":"Go Testing","url":"https://go.dev/testing","content":"Testing\n in Go"}]}`), nil
	})

	res := s.Search(context.Background(), "golang testing")
	require.False(t, res.Failed(), res.Error)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Go Testing", res.Items[0].Title())
	assert.Equal(t, "https://go.dev/testing", res.Items[0].PrimaryLink())
	assert.Equal(t, "Testing in Go", domain.Snippet(res.Items[0]))
}

func TestSearXNGCapsResults(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"results":[`)
	for i := 0; i < 9; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"title":"R%d","url":"https://r%d.example","content":""}`, i, i)
	}
	sb.WriteString(`]}`)

	s := newTestSearXNG(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, sb.String()), nil
	})

	res := s.Search(context.Background(), "q")
	require.Len(t, res.Items, 5)
	assert.Equal(t, "R0", res.Items[0].Title())
	assert.Empty(t, res.Items[0].SummaryLines())
}

func TestSearXNGNon200(t *testing.T) {
	s := newTestSearXNG(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(503, "upstream down"), nil
	})

	res := s.Search(context.Background(), "q")
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "HTTP 503: upstream down")
	assert.Empty(t, res.Items)
}

func TestSearXNGInvalidJSON(t *testing.T) {
	s := newTestSearXNG(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `<html>not json</html>`), nil
	})

	res := s.Search(context.Background(), "q")
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "parse response")
}
